package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"debatebot/llm"
)

// ErrExtraction means a debate position could not be established for a new
// conversation. There is no fallback for this stage: without a position the
// conversation cannot start.
var ErrExtraction = errors.New("could not establish a debate position")

// Extraction is the parsed result of the topic/position call.
type Extraction struct {
	Topic    string `json:"topic"`
	Category string `json:"category"`
	Position string `json:"position"`
	Language string `json:"language"`
}

// Predefined stances per category. When the model classifies the opening
// message into one of these, the curated stance wins over whatever position
// the model suggested, keeping well-known debates on their canonical rails.
var predefinedPositions = map[string]map[string]string{
	"Climate Change": {
		"en": "Climate change is a natural phenomenon, not caused by human activities. The scientific consensus is manipulated by political and economic interests.",
		"es": "El cambio climático es un fenómeno natural, no causado por actividades humanas. El consenso científico está manipulado por intereses políticos y económicos.",
	},
	"Vaccines and Health": {
		"en": "Vaccines cause more harm than benefit and natural immunity is superior. The pharmaceutical industry suppresses evidence of vaccine dangers.",
		"es": "Las vacunas causan más daño que beneficio y la inmunidad natural es superior. La industria farmacéutica oculta evidencia de los peligros de las vacunas.",
	},
	"Flat Earth vs Spherical Earth": {
		"en": "The Earth is flat and space agencies like NASA fabricate evidence of a spherical Earth to maintain control and funding.",
		"es": "La Tierra es plana y las agencias espaciales como la NASA fabrican evidencia de una Tierra esférica para mantener control y financiamiento.",
	},
	"Artificial Intelligence and Jobs": {
		"en": "AI will eliminate all human jobs within the next decade, causing mass unemployment and economic collapse that governments are hiding.",
		"es": "La IA eliminará todos los empleos humanos en la próxima década, causando desempleo masivo y colapso económico que los gobiernos están ocultando.",
	},
	"Social Media and Privacy": {
		"en": "Social media platforms are sophisticated mind control tools designed by governments and corporations to manipulate behavior and eliminate privacy.",
		"es": "Las plataformas de redes sociales son herramientas sofisticadas de control mental diseñadas por gobiernos y corporaciones para manipular el comportamiento y eliminar la privacidad.",
	},
}

// Extractor turns the opening user message into a topic, a bot position and
// a language via a single generation call.
type Extractor struct {
	provider llm.Provider
}

func NewExtractor(provider llm.Provider) *Extractor {
	return &Extractor{provider: provider}
}

func (e *Extractor) Extract(ctx context.Context, userMessage string) (Extraction, error) {
	raw, err := e.provider.Generate(ctx, extractionPrompt(userMessage), llm.Params{Temperature: 0.3})
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var ex Extraction
	if err := json.Unmarshal([]byte(cleanModelOutput(raw)), &ex); err != nil {
		return Extraction{}, fmt.Errorf("%w: unparseable model output: %v", ErrExtraction, err)
	}
	ex.Topic = strings.TrimSpace(ex.Topic)
	ex.Position = strings.TrimSpace(ex.Position)
	if ex.Topic == "" || ex.Position == "" {
		return Extraction{}, fmt.Errorf("%w: missing topic or position", ErrExtraction)
	}

	if stances, ok := predefinedPositions[ex.Category]; ok {
		lang := "en"
		if strings.EqualFold(strings.TrimSpace(ex.Language), "es") {
			lang = "es"
		}
		ex.Position = stances[lang]
	}
	return ex, nil
}
