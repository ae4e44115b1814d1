// Package catalog 提供故事向导的静态元素库
// 包含体裁、作家风格、角色原型、场景设定、情节结构与视觉风格的内置表，
// 以及按 ID 查找和按体裁兼容性过滤的能力
package catalog

import (
	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/pkg/errors"
)

// genres 内置体裁表
var genres = []entity.Genre{
	{
		ID:           "literary-fantasy",
		Name:         "Fantasy Letterario",
		Description:  "Fantasy sofisticato con profondità psicologica e temi universali",
		Icon:         "📚",
		Tones:        []string{"contemplativo", "epico", "malinconia poetica", "mistero arcano"},
		Themes:       []string{"crescita personale", "potere e corruzione", "sacrificio", "eredità"},
		WritingStyle: "Prosa ricca, descrizioni evocative, dialoghi profondi",
		TargetLength: "6000-8000 parole",
	},
	{
		ID:           "noir-thriller",
		Name:         "Noir Psicologico",
		Description:  "Thriller introspettivo con atmosfere dark e personaggi complessi",
		Icon:         "🌙",
		Tones:        []string{"cupo", "introspettivo", "tensione crescente", "rivelazione graduale"},
		Themes:       []string{"colpa e redenzione", "verità nascosta", "giustizia morale", "identità"},
		WritingStyle: "Stile asciutto, tensione costante, flashback strategici",
		TargetLength: "5000-7000 parole",
	},
	{
		ID:           "magical-realism",
		Name:         "Realismo Magico",
		Description:  "Realtà quotidiana arricchita da elementi fantastici sottili",
		Icon:         "✨",
		Tones:        []string{"onirico", "nostalgico", "surreale", "emotivamente intenso"},
		Themes:       []string{"memoria e tempo", "amore e perdita", "tradizione vs modernità", "destino"},
		WritingStyle: "Prosa poetica, simbolismo ricco, transizioni fluide",
		TargetLength: "4000-6000 parole",
	},
	{
		ID:           "historical-drama",
		Name:         "Dramma Storico",
		Description:  "Narrazioni ambientate nel passato con ricerca accurata",
		Icon:         "⚔️",
		Tones:        []string{"epico", "intimista", "drammatico", "riflessivo"},
		Themes:       []string{"onore e dovere", "cambiamento sociale", "sopravvivenza", "legacy"},
		WritingStyle: "Linguaggio d'epoca, dettagli storici accurati, conflitti umani",
		TargetLength: "6000-8000 parole",
	},
}

// authorStyles 内置作家风格表
var authorStyles = []entity.AuthorStyle{
	{
		ID:          "borges-style",
		Name:        "Jorge Luis Borges",
		Description: "Labirinti concettuali, paradossi temporali, erudizione sottile",
		Period:      "XX secolo",
		Techniques:  []string{"meta-narrazione", "riferimenti letterari", "strutture circolari", "paradossi logici"},
		Signature:   "Racconti brevi densi di significato filosofico",
		Genres:      []string{"literary-fantasy", "magical-realism"},
	},
	{
		ID:          "chandler-style",
		Name:        "Raymond Chandler",
		Description: "Detective hard-boiled, dialoghi taglienti, atmosfere urbane",
		Period:      "Metà XX secolo",
		Techniques:  []string{"prima persona", "descrizioni cinematografiche", "dialoghi realistici", "ritmo serrato"},
		Signature:   "Investigatori cinici in città corrotte",
		Genres:      []string{"noir-thriller"},
	},
	{
		ID:          "marquez-style",
		Name:        "Gabriel García Márquez",
		Description: "Realismo magico, saghe familiari, tempo ciclico",
		Period:      "XX secolo",
		Techniques:  []string{"realismo magico", "narrazione epica", "simbolismo ricco", "tempo non-lineare"},
		Signature:   "Storie generazionali con elementi fantastici naturali",
		Genres:      []string{"magical-realism", "literary-fantasy"},
	},
	{
		ID:          "dumas-style",
		Name:        "Alexandre Dumas",
		Description: "Avventure epiche, personaggi eroici, intrighi di corte",
		Period:      "XIX secolo",
		Techniques:  []string{"narrazione epica", "dialoghi teatrali", "azione dinamica", "conflitti d'onore"},
		Signature:   "Eroi coraggiosi in ambientazioni storiche grandiose",
		Genres:      []string{"historical-drama"},
	},
}

// characterArchetypes 内置角色原型表
var characterArchetypes = []entity.CharacterArchetype{
	{
		ID:               "reluctant-sage",
		Name:             "Il Saggio Riluttante",
		Description:      "Detentore di conoscenza che rifiuta il ruolo di mentore",
		Motivations:      []string{"proteggere la conoscenza", "evitare responsabilità", "redenzione personale"},
		Flaws:            []string{"isolamento", "arroganza intellettuale", "paura del fallimento"},
		Strengths:        []string{"saggezza profonda", "intuizione", "esperienza"},
		Family:           "mentor",
		CompatibleGenres: []string{"literary-fantasy", "magical-realism"},
	},
	{
		ID:               "broken-detective",
		Name:             "Il Detective Infranto",
		Description:      "Investigatore segnato dal passato che cerca verità e redenzione",
		Motivations:      []string{"giustizia personale", "redenzione", "proteggere gli innocenti"},
		Flaws:            []string{"alcoolismo/dipendenze", "cinismo", "isolamento emotivo"},
		Strengths:        []string{"intuizione", "determinazione", "empatia nascosta"},
		Family:           "hero",
		CompatibleGenres: []string{"noir-thriller"},
	},
	{
		ID:               "memory-keeper",
		Name:             "Il Custode della Memoria",
		Description:      "Personaggio che preserva storie e tradizioni in via di estinzione",
		Motivations:      []string{"preservare il passato", "tramandare saggezza", "connettere generazioni"},
		Flaws:            []string{"nostalgia paralizzante", "resistenza al cambiamento", "solitudine"},
		Strengths:        []string{"conoscenza storica", "narrazione", "connessione emotiva"},
		Family:           "guardian",
		CompatibleGenres: []string{"magical-realism", "historical-drama"},
	},
}

// settingTemplates 内置场景设定表
var settingTemplates = []entity.SettingTemplate{
	{
		ID:               "forgotten-library",
		Name:             "Biblioteca Dimenticata",
		Description:      "Antica biblioteca che custodisce segreti perduti nel tempo",
		Atmosphere:       "misteriosa, polverosa, carica di magia latente, silenziosa",
		Conflicts:        []string{"conoscenza proibita", "guardiani antichi", "tempo che scorre"},
		Opportunities:    []string{"scoperte rivoluzionarie", "alleanze inaspettate", "poteri nascosti"},
		VisualElements:   []string{"scaffali infiniti", "luce filtrata", "manoscritti antichi", "echi del passato"},
		CompatibleGenres: []string{"literary-fantasy", "magical-realism"},
	},
	{
		ID:               "rain-soaked-city",
		Name:             "Città sotto la Pioggia",
		Description:      "Metropoli notturna dove ogni ombra nasconde segreti",
		Atmosphere:       "noir, umida, elettrica, claustrofobica",
		Conflicts:        []string{"corruzione sistemica", "criminalità organizzata", "isolamento urbano"},
		Opportunities:    []string{"alleanze inaspettate", "verità nascoste", "redenzione"},
		VisualElements:   []string{"luci al neon riflesse", "vicoli bagnati", "fumo di sigarette", "finestre illuminate"},
		CompatibleGenres: []string{"noir-thriller"},
	},
	{
		ID:               "ancestral-village",
		Name:             "Villaggio Ancestrale",
		Description:      "Comunità rurale dove passato e presente si intrecciano naturalmente",
		Atmosphere:       "nostalgica, timeless, spirituale, organica",
		Conflicts:        []string{"tradizioni vs modernità", "segreti familiari", "cambiamenti inevitabili"},
		Opportunities:    []string{"guarigione spirituale", "connessioni profonde", "saggezza antica"},
		VisualElements:   []string{"case di pietra", "giardini rigogliosi", "sentieri antichi", "alberi secolari"},
		CompatibleGenres: []string{"magical-realism", "historical-drama"},
	},
}

// plotStructures 内置情节结构表
var plotStructures = []entity.PlotStructure{
	{
		ID:          "revelation-spiral",
		Name:        "Spirale di Rivelazioni",
		Description: "Verità che si svelano gradualmente cambiando la percezione della realtà",
		Acts: []entity.PlotAct{
			{
				Name:      "Mistero Iniziale",
				Purpose:   "Stabilire l'enigma centrale e il protagonista",
				KeyEvents: []string{"evento scatenante", "prima scoperta", "dubbio iniziale"},
			},
			{
				Name:      "Ricerca e Scoperte",
				Purpose:   "Approfondire il mistero attraverso indizi",
				KeyEvents: []string{"false piste", "alleati e nemici", "rivelazione parziale"},
			},
			{
				Name:      "Verità Finale",
				Purpose:   "Svelare la verità completa e le sue conseguenze",
				KeyEvents: []string{"rivelazione shock", "confronto finale", "nuova comprensione"},
			},
		},
		ConflictTypes:    []string{"verità vs illusione", "passato vs presente", "conoscenza vs ignoranza"},
		Resolution:       "Comprensione profonda che cambia il protagonista",
		CompatibleGenres: []string{"noir-thriller", "literary-fantasy"},
	},
	{
		ID:          "cyclical-legacy",
		Name:        "Eredità Ciclica",
		Description: "Storie che si ripetono attraverso generazioni con variazioni",
		Acts: []entity.PlotAct{
			{
				Name:      "Eredità del Passato",
				Purpose:   "Mostrare l'influenza delle generazioni precedenti",
				KeyEvents: []string{"scoperta dell'eredità", "peso della tradizione", "resistenza iniziale"},
			},
			{
				Name:      "Rottura del Ciclo",
				Purpose:   "Tentativo di cambiare il destino prestabilito",
				KeyEvents: []string{"ribellione", "conseguenze impreviste", "sacrifici necessari"},
			},
			{
				Name:      "Nuova Tradizione",
				Purpose:   "Creare un nuovo equilibrio tra passato e futuro",
				KeyEvents: []string{"accettazione", "trasformazione", "trasmissione rinnovata"},
			},
		},
		ConflictTypes:    []string{"destino vs libero arbitrio", "tradizione vs innovazione", "individuo vs comunità"},
		Resolution:       "Equilibrio tra preservazione e cambiamento",
		CompatibleGenres: []string{"magical-realism", "historical-drama"},
	},
}

// visualStyles 内置视觉风格表
var visualStyles = []entity.VisualStyle{
	{ID: "realistic", Name: "Realistico", Description: "Immagini fotorealistiche e dettagliate", PromptFragment: "photorealistic, detailed, high quality, 8k"},
	{ID: "fantasy_art", Name: "Arte Fantasy", Description: "Stile artistico fantasy con colori vivaci", PromptFragment: "fantasy art, magical, vibrant colors, detailed illustration"},
	{ID: "anime", Name: "Anime", Description: "Stile manga e anime giapponese", PromptFragment: "anime style, manga, japanese animation, detailed"},
	{ID: "digital_art", Name: "Arte Digitale", Description: "Arte digitale moderna e stilizzata", PromptFragment: "digital art, concept art, detailed, artstation quality"},
	{ID: "oil_painting", Name: "Dipinto a Olio", Description: "Stile classico pittura a olio", PromptFragment: "oil painting, classical art, detailed brushwork, masterpiece"},
	{ID: "cinematic", Name: "Cinematografico", Description: "Stile cinematografico drammatico", PromptFragment: "cinematic lighting, dramatic, movie scene, professional photography"},
	{ID: "steampunk", Name: "Steampunk", Description: "Stile retro-futuristico steampunk", PromptFragment: "steampunk style, brass and copper, Victorian era, mechanical"},
	{ID: "watercolor", Name: "Acquerello", Description: "Delicate sfumature ad acquerello", PromptFragment: "watercolor painting, soft colors, artistic, flowing"},
}

// Genres 返回全部体裁
func Genres() []entity.Genre {
	return genres
}

// AuthorStyles 返回作家风格，genreID 非空时按兼容体裁过滤
func AuthorStyles(genreID string) []entity.AuthorStyle {
	if genreID == "" {
		return authorStyles
	}
	out := make([]entity.AuthorStyle, 0, len(authorStyles))
	for _, a := range authorStyles {
		if containsString(a.Genres, genreID) {
			out = append(out, a)
		}
	}
	return out
}

// CharacterArchetypes 返回角色原型，genreID 非空时按兼容体裁过滤
func CharacterArchetypes(genreID string) []entity.CharacterArchetype {
	if genreID == "" {
		return characterArchetypes
	}
	out := make([]entity.CharacterArchetype, 0, len(characterArchetypes))
	for _, c := range characterArchetypes {
		if containsString(c.CompatibleGenres, genreID) {
			out = append(out, c)
		}
	}
	return out
}

// SettingTemplates 返回场景设定，genreID 非空时按兼容体裁过滤
func SettingTemplates(genreID string) []entity.SettingTemplate {
	if genreID == "" {
		return settingTemplates
	}
	out := make([]entity.SettingTemplate, 0, len(settingTemplates))
	for _, s := range settingTemplates {
		if containsString(s.CompatibleGenres, genreID) {
			out = append(out, s)
		}
	}
	return out
}

// PlotStructures 返回情节结构，genreID 非空时按兼容体裁过滤
func PlotStructures(genreID string) []entity.PlotStructure {
	if genreID == "" {
		return plotStructures
	}
	out := make([]entity.PlotStructure, 0, len(plotStructures))
	for _, p := range plotStructures {
		if containsString(p.CompatibleGenres, genreID) {
			out = append(out, p)
		}
	}
	return out
}

// VisualStyles 返回全部视觉风格
func VisualStyles() []entity.VisualStyle {
	return visualStyles
}

// GenreByID 按 ID 查找体裁
func GenreByID(id string) (*entity.Genre, error) {
	for i := range genres {
		if genres[i].ID == id {
			g := genres[i]
			return &g, nil
		}
	}
	return nil, errors.ErrElementNotFound.WithDetail("genre: " + id)
}

// AuthorStyleByID 按 ID 查找作家风格
func AuthorStyleByID(id string) (*entity.AuthorStyle, error) {
	for i := range authorStyles {
		if authorStyles[i].ID == id {
			a := authorStyles[i]
			return &a, nil
		}
	}
	return nil, errors.ErrElementNotFound.WithDetail("author: " + id)
}

// CharacterArchetypeByID 按 ID 查找角色原型
func CharacterArchetypeByID(id string) (*entity.CharacterArchetype, error) {
	for i := range characterArchetypes {
		if characterArchetypes[i].ID == id {
			c := characterArchetypes[i]
			return &c, nil
		}
	}
	return nil, errors.ErrElementNotFound.WithDetail("character: " + id)
}

// SettingTemplateByID 按 ID 查找场景设定
func SettingTemplateByID(id string) (*entity.SettingTemplate, error) {
	for i := range settingTemplates {
		if settingTemplates[i].ID == id {
			s := settingTemplates[i]
			return &s, nil
		}
	}
	return nil, errors.ErrElementNotFound.WithDetail("setting: " + id)
}

// PlotStructureByID 按 ID 查找情节结构
func PlotStructureByID(id string) (*entity.PlotStructure, error) {
	for i := range plotStructures {
		if plotStructures[i].ID == id {
			p := plotStructures[i]
			return &p, nil
		}
	}
	return nil, errors.ErrElementNotFound.WithDetail("plot: " + id)
}

// VisualStyleByID 按 ID 查找视觉风格
func VisualStyleByID(id string) (*entity.VisualStyle, error) {
	for i := range visualStyles {
		if visualStyles[i].ID == id {
			v := visualStyles[i]
			return &v, nil
		}
	}
	return nil, errors.ErrElementNotFound.WithDetail("style: " + id)
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
