package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driving"
	"github.com/tessellate-labs/quill-cli/internal/logger"
)

// maxSubQuestions caps how many sub-questions a breakdown may produce.
const maxSubQuestions = 5

// defaultBreakdownPrompt is the fallback prompt when no PromptStore is configured.
const defaultBreakdownPrompt = `Break the following question into simple, atomic sub-questions that can each be answered independently.
Return one sub-question per line with no numbering or bullets.
If the question is already simple, return it unchanged on a single line.

Question: %s
Sub-questions:`

// defaultRerankPrompt is the fallback prompt when no PromptStore is configured.
const defaultRerankPrompt = `Rate how relevant the passage is for answering the question.
Reply with ONLY a number between 0.0 (irrelevant) and 1.0 (directly answers it).

Question: %s

Passage:
%s

Score:`

// Ensure Retriever can take customised prompts.
var _ driven.PromptStoreAware = (*Retriever)(nil)

// Retriever translates a possibly compound question into ranked grounding
// context: it decomposes the question, fans retrieval out per sub-question,
// merges the candidates, and re-ranks them against the original question.
type Retriever struct {
	store        driving.StoreService
	llm          driven.LLMService
	prompts      driven.PromptStore
	perQuestionK int
	topN         int
}

// NewRetriever creates a retriever. The llm parameter is optional (can be
// nil); without it, breakdown returns the question unchanged and re-ranking
// falls back to distance-derived scores.
func NewRetriever(store driving.StoreService, llm driven.LLMService, perQuestionK, topN int) *Retriever {
	if perQuestionK <= 0 {
		perQuestionK = 8
	}
	if topN <= 0 {
		topN = 4
	}
	return &Retriever{
		store:        store,
		llm:          llm,
		perQuestionK: perQuestionK,
		topN:         topN,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (r *Retriever) SetPromptStore(store driven.PromptStore) {
	r.prompts = store
}

// TopN returns how many re-ranked contexts the retriever keeps.
func (r *Retriever) TopN() int {
	return r.topN
}

// BreakdownQuestion decomposes a compound question into atomic sub-questions.
// If decomposition fails or yields nothing usable, it degrades gracefully by
// returning the original question as the only element.
func (r *Retriever) BreakdownQuestion(ctx context.Context, question string) []string {
	if r.llm == nil {
		logger.Debug("LLM unavailable, skipping question breakdown")
		return []string{question}
	}

	promptTemplate := r.loadPrompt(driven.PromptBreakdown, defaultBreakdownPrompt)
	prompt := strings.Replace(promptTemplate, "%s", question, 1)

	response, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   300,
		Temperature: 0.0,
	})
	if err != nil {
		logger.Warn("Question breakdown failed: %v (using original question)", err)
		return []string{question}
	}

	subQuestions := parseSubQuestions(response)
	if len(subQuestions) == 0 {
		logger.Debug("Breakdown produced no sub-questions, using original question")
		return []string{question}
	}
	if len(subQuestions) > maxSubQuestions {
		subQuestions = subQuestions[:maxSubQuestions]
	}

	logger.Debug("Breakdown: %d sub-questions", len(subQuestions))
	return subQuestions
}

// RetrieveContext searches the store for each sub-question concurrently and
// merges the candidates. Duplicates are collapsed by chunk id keeping the
// lowest distance, and the merge is deterministic regardless of completion
// order. A failed sub-question is logged and excluded; it never aborts the
// other retrievals.
func (r *Retriever) RetrieveContext(ctx context.Context, subQuestions []string) []domain.SearchResult {
	perQuestion := make([][]domain.SearchResult, len(subQuestions))

	var wg sync.WaitGroup
	wg.Add(len(subQuestions))

	for i, sq := range subQuestions {
		go func(i int, sq string) {
			defer wg.Done()
			results, err := r.store.Search(ctx, sq, domain.SearchOptions{Limit: r.perQuestionK})
			if err != nil {
				logger.Warn("Retrieval for sub-question %q failed: %v (skipping)", sq, err)
				return
			}
			perQuestion[i] = results
		}(i, sq)
	}

	wg.Wait()

	best := make(map[string]domain.SearchResult)
	for _, results := range perQuestion {
		for _, result := range results {
			id := result.Chunk.ID
			if existing, ok := best[id]; !ok || result.Distance < existing.Distance {
				best[id] = result
			}
		}
	}

	merged := make([]domain.SearchResult, 0, len(best))
	for _, result := range best {
		merged = append(merged, result)
	}

	// Ascending by distance; chunk id breaks ties so the order does not
	// depend on map iteration.
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Distance != merged[j].Distance {
			return merged[i].Distance < merged[j].Distance
		}
		return merged[i].Chunk.ID < merged[j].Chunk.ID
	})

	logger.Debug("Retrieved %d unique candidates across %d sub-questions",
		len(merged), len(subQuestions))
	return merged
}

// RerankContext scores each candidate's relevance to the original question
// and returns the top candidates descending by score. Ties keep the input
// (ascending distance) order. Scoring failures fall back to a score derived
// from the original distance rather than blocking the pipeline.
func (r *Retriever) RerankContext(ctx context.Context, question string, candidates []domain.SearchResult) []domain.RankedContext {
	ranked := make([]domain.RankedContext, len(candidates))
	for i, candidate := range candidates {
		ranked[i] = domain.RankedContext{
			SearchResult: candidate,
			RerankScore:  r.scoreRelevance(ctx, question, candidate),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RerankScore > ranked[j].RerankScore
	})

	if len(ranked) > r.topN {
		ranked = ranked[:r.topN]
	}

	logger.Debug("Re-ranked to %d contexts", len(ranked))
	return ranked
}

// scoreRelevance asks the model for a relevance judgement of one candidate.
// Without an LLM, or when scoring fails, the cosine distance is mapped onto
// [0, 1] as a fallback score.
func (r *Retriever) scoreRelevance(ctx context.Context, question string, candidate domain.SearchResult) float64 {
	fallback := 1.0 - candidate.Distance/2.0

	if r.llm == nil {
		return fallback
	}

	promptTemplate := r.loadPrompt(driven.PromptRerank, defaultRerankPrompt)
	prompt := promptTemplate
	prompt = strings.Replace(prompt, "%s", question, 1)
	prompt = strings.Replace(prompt, "%s", candidate.Chunk.Content, 1)

	response, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   8,
		Temperature: 0.0,
	})
	if err != nil {
		logger.Warn("Relevance scoring failed: %v (using distance fallback)", err)
		return fallback
	}

	score, ok := parseScore(response)
	if !ok {
		logger.Warn("Relevance score %q not parseable (using distance fallback)", response)
		return fallback
	}
	return score
}

// loadPrompt returns the stored prompt template or the compiled-in default.
func (r *Retriever) loadPrompt(name, fallback string) string {
	if r.prompts == nil {
		return fallback
	}
	prompt, err := r.prompts.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// parseSubQuestions extracts sub-questions from a model response, stripping
// any numbering or bullets the model added despite instructions.
func parseSubQuestions(response string) []string {
	var subQuestions []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		// Strip leading "1." / "2)" style numbering.
		if i := strings.IndexAny(line, ".)"); i > 0 && i <= 2 {
			if _, err := strconv.Atoi(line[:i]); err == nil {
				line = strings.TrimSpace(line[i+1:])
			}
		}
		if line == "" {
			continue
		}
		subQuestions = append(subQuestions, line)
	}
	return subQuestions
}

// parseScore extracts a relevance score from a model response and clamps it
// onto [0, 1].
func parseScore(response string) (float64, bool) {
	fields := strings.Fields(strings.TrimSpace(response))
	if len(fields) == 0 {
		return 0, false
	}

	token := strings.Trim(fields[0], ",;:")
	score, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, true
}
