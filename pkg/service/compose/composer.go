package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
)

// Composer turns retrieval results plus conversation history into the final
// Spanish answer. All clock math is done before the model sees the data;
// the model only formats what it is given.
type Composer struct {
	llmClient gollem.LLMClient
}

// Input carries everything a single composition needs.
type Input struct {
	// History is the visible conversation window, oldest first, including
	// the current user message as the last entry
	History []*model.ConversationEntry
	// Candidates are annotated retrieval results in presentation order
	Candidates []*model.ScoredCandidate
	// HasLocation tells the prompt to surface per-card distances
	HasLocation bool
	// Now anchors the day and time context line
	Now time.Time
}

// New creates a composer backed by the given LLM client.
func New(llmClient gollem.LLMClient) (*Composer, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &Composer{llmClient: llmClient}, nil
}

// Compose generates the answer text.
func (c *Composer) Compose(ctx context.Context, input Input) (string, error) {
	data, err := candidateJSON(input.Candidates, input.HasLocation)
	if err != nil {
		return "", err
	}

	systemPrompt := systemPromptBase +
		"\n=== DATOS DISPONIBLES ===\n" + data + "\n=== FIN DATOS ==="

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(input)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate answer")
	}
	if len(resp.Texts) == 0 || strings.TrimSpace(resp.Texts[0]) == "" {
		return "", goerr.New("LLM returned an empty answer")
	}

	return resp.Texts[0], nil
}

var weekdayNames = []string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

// buildUserPrompt replays the visible history and prefixes the last user
// message with the dynamic context block: current day and time, whether a
// location is known, and which candidates are open right now.
func buildUserPrompt(input Input) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[Hoy es %s %s, son las %s hs]\n",
		weekdayNames[int(input.Now.Weekday())],
		input.Now.Format("02/01/2006"),
		input.Now.Format("15:04"),
	))

	if input.HasLocation {
		sb.WriteString("El usuario compartió su UBICACIÓN. Mostrá la distancia 🚶 en cada tarjeta.\n")
	}

	var openNames []string
	for _, cand := range input.Candidates {
		if cand.Open == types.OpenStateOpen {
			openNames = append(openNames, cand.Record.Name)
		}
	}
	if len(openNames) > 0 {
		if len(openNames) > 6 {
			openNames = openNames[:6]
		}
		sb.WriteString(fmt.Sprintf(
			"\n⚠️ HAY %d COMERCIO(S) ABIERTO(S) AHORA: %s\nNO digas que están todos cerrados.\n",
			len(openNames), strings.Join(openNames, ", "),
		))
	}

	sb.WriteString("\n=== CONVERSACIÓN ===\n")
	for _, entry := range input.History {
		switch entry.Role {
		case types.RoleAssistant:
			sb.WriteString("Vecinito: ")
		default:
			sb.WriteString("Usuario: ")
		}
		sb.WriteString(entry.Text)
		sb.WriteString("\n")
	}
	sb.WriteString("\nRespondé al último mensaje del usuario.")

	return sb.String()
}

// llmCandidate is the trimmed view the model receives. Internal fields such
// as IDs, coordinates, tags and raw scores never reach the prompt.
type llmCandidate struct {
	EstadoActual string `json:"estado_actual,omitempty"`
	Nombre       string `json:"nombre"`
	Categoria    string `json:"categoria,omitempty"`
	Rubro        string `json:"rubro,omitempty"`
	Zona         string `json:"zona,omitempty"`
	Direccion    string `json:"direccion,omitempty"`
	Horarios     string `json:"horarios,omitempty"`
	Contacto     string `json:"contacto,omitempty"`
	Experiencia  string `json:"experiencia,omitempty"`
	Distancia    string `json:"distancia,omitempty"`
}

func candidateJSON(candidates []*model.ScoredCandidate, hasLocation bool) (string, error) {
	out := make([]llmCandidate, 0, len(candidates))
	for _, cand := range candidates {
		rec := cand.Record
		entry := llmCandidate{
			Nombre:      rec.Name,
			Categoria:   rec.Category,
			Rubro:       rec.Rubro,
			Zona:        rec.Zone.String(),
			Direccion:   rec.Address,
			Horarios:    rec.HoursSpec,
			Contacto:    rec.Contact,
			Experiencia: rec.Experience,
		}

		switch cand.Open {
		case types.OpenStateOpen:
			entry.EstadoActual = "ABIERTO AHORA ✅"
		case types.OpenStateClosed:
			entry.EstadoActual = "CERRADO AHORA ❌"
		}

		if hasLocation && cand.DistanceKm != nil {
			entry.Distancia = formatDistance(*cand.DistanceKm)
		}

		out = append(out, entry)
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal candidate data")
	}
	return string(raw), nil
}

// formatDistance renders sub-kilometer distances in meters.
func formatDistance(km float64) string {
	if km < 1.0 {
		return fmt.Sprintf("%d metros", int(km*1000))
	}
	return fmt.Sprintf("%.1f km", km)
}
