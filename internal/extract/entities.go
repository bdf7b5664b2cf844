package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/ppiankov/aletheia/internal/llm"
	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
)

const nerSystem = `You extract named entities from short texts. Respond with only a JSON object with keys "person", "organization", "place" and "date", each holding an array of strings. Use empty arrays when nothing fits a category.`

// EntityExtractor pulls named-entity-like tokens out of claim text.
// With a configured model provider it asks for categorized entities;
// otherwise, or whenever the model call fails, a capitalized-token
// heuristic runs. Extraction never fails; the worst case is an empty
// bag.
type EntityExtractor struct {
	provider llm.Provider
	log      logger.Logger
}

// NewEntityExtractor creates an extractor. A nil provider selects the
// heuristic path permanently.
func NewEntityExtractor(provider llm.Provider, log logger.Logger) *EntityExtractor {
	return &EntityExtractor{provider: provider, log: log}
}

// Extract builds the entity bag for one claim
func (e *EntityExtractor) Extract(ctx context.Context, text string) *model.EntityBag {
	if e.provider != nil {
		bag, err := e.modelEntities(ctx, text)
		if err == nil {
			return bag
		}
		e.log.Debug("model entity extraction failed, using heuristic", logger.Error(err))
	}
	return heuristicEntities(text)
}

type nerResult struct {
	Person       []string `json:"person"`
	Organization []string `json:"organization"`
	Place        []string `json:"place"`
	Date         []string `json:"date"`
}

func (e *EntityExtractor) modelEntities(ctx context.Context, text string) (*model.EntityBag, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System:    nerSystem,
		Prompt:    "Extract the named entities from this text:\n\n" + text,
		MaxTokens: 300,
	})
	if err != nil {
		return nil, err
	}

	payload, ok := llm.FirstJSONObject(resp.Text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in entity response")
	}

	var res nerResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}

	bag := model.NewEntityBag()
	addAll(bag, model.EntityPerson, res.Person)
	addAll(bag, model.EntityOrganization, res.Organization)
	addAll(bag, model.EntityPlace, res.Place)
	addAll(bag, model.EntityDate, res.Date)
	return bag, nil
}

func addAll(bag *model.EntityBag, cat model.EntityCategory, values []string) {
	for _, v := range values {
		bag.Add(cat, strings.TrimSpace(v))
	}
}

// heuristicEntities treats capitalized word-like tokens as
// organization-category entities.
func heuristicEntities(text string) *model.EntityBag {
	bag := model.NewEntityBag()

	for _, field := range strings.Fields(text) {
		tok := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r)
		})

		runes := []rune(tok)
		if len(runes) < 2 {
			continue
		}
		if !unicode.IsUpper(runes[0]) {
			continue
		}

		wordLike := true
		for _, r := range runes[1:] {
			if !unicode.IsLetter(r) {
				wordLike = false
				break
			}
		}
		if !wordLike {
			continue
		}

		bag.Add(model.EntityOrganization, tok)
	}

	return bag
}
