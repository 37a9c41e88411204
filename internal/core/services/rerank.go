package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
	"github.com/lectern-labs/lectern-cli/internal/logger"
)

// Score blend weights. Similarity comes from vector distance, judged
// from the generation model; both normalised to [0,1] before blending.
const (
	SimilarityWeight = 0.6
	JudgedWeight     = 0.4
)

// Judged relevance scale bounds.
const (
	judgeScaleMin = 1
	judgeScaleMax = 5
)

// defaultJudgePrompt is the fallback when no PromptStore is configured.
const defaultJudgePrompt = `Rate how relevant this page is to the query on a scale of 1 to 5.
1 = not relevant at all, 5 = directly answers the query.
Reply with ONLY the number, nothing else.

Query: %s

Page:
%s

Rating:`

// Reranker refines a ranked result set by asking the generation model
// to judge each page's relevance. One generation call per candidate,
// issued sequentially: the inference server is a shared local resource.
type Reranker struct {
	llm         driven.GenerationService
	promptStore driven.PromptStore
}

// NewReranker creates a reranker on top of a generation service.
func NewReranker(llm driven.GenerationService) *Reranker {
	return &Reranker{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (r *Reranker) SetPromptStore(store driven.PromptStore) {
	r.promptStore = store
}

// ModelName returns the judging model's name.
func (r *Reranker) ModelName() string {
	if r.llm == nil {
		return ""
	}
	return r.llm.ModelName()
}

// Rerank judges every candidate and re-sorts by the blended score.
// A failed or unparsable judgement falls back to the candidate's own
// similarity, so the blend degrades to plain similarity for that entry
// and the candidate is never dropped. The sort is stable: ties keep
// the original similarity order.
func (r *Reranker) Rerank(
	ctx context.Context, query string, candidates []domain.RankedResult,
) []domain.RankedResult {
	if r.llm == nil || len(candidates) == 0 {
		return candidates
	}

	template := loadPrompt(r.promptStore, driven.PromptRelevanceJudge, defaultJudgePrompt)

	results := make([]domain.RankedResult, len(candidates))
	copy(results, candidates)

	for i := range results {
		judged, ok := r.judge(ctx, template, query, results[i].Record.Text)
		if !ok {
			// Fail closed: the candidate keeps its similarity-derived score.
			judged = results[i].Similarity
		}
		results[i].Judged = judged
		results[i].JudgedOK = ok
		results[i].Combined = SimilarityWeight*results[i].Similarity + JudgedWeight*judged
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Combined > results[j].Combined
	})

	return results
}

// judge asks the model for a 1-5 rating and normalises it to [0,1].
func (r *Reranker) judge(ctx context.Context, template, query, pageText string) (float64, bool) {
	prompt := fmt.Sprintf(template, query, pageText)

	reply, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   8,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Relevance judgement failed: %v", err)
		return 0, false
	}

	score, ok := parseJudgedScore(reply)
	if !ok {
		logger.Warn("Unparsable relevance reply: %q", reply)
		return 0, false
	}

	return float64(score-judgeScaleMin) / float64(judgeScaleMax-judgeScaleMin), true
}

// parseJudgedScore extracts the first integer in reply and validates
// it against the 1-5 scale. Out-of-range values are rejected.
func parseJudgedScore(reply string) (int, bool) {
	start := strings.IndexFunc(reply, isDigit)
	if start < 0 {
		return 0, false
	}

	end := start
	for end < len(reply) && isDigit(rune(reply[end])) {
		end++
	}

	score, err := strconv.Atoi(reply[start:end])
	if err != nil || score < judgeScaleMin || score > judgeScaleMax {
		return 0, false
	}
	return score, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// loadPrompt loads a named prompt, falling back to the embedded default.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
