package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
)

// fakeEmbedder maps text deterministically to a 3-dimensional vector
// counting the letters a, b and c. Close enough for cosine ordering.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return letterVector(text), nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int                { return 3 }
func (f *fakeEmbedder) ModelName() string              { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error   { return nil }
func (f *fakeEmbedder) Close() error                   { return nil }

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func letterVector(text string) []float32 {
	v := make([]float32, 3)
	for _, r := range strings.ToLower(text) {
		switch r {
		case 'a':
			v[0]++
		case 'b':
			v[1]++
		case 'c':
			v[2]++
		}
	}
	return v
}

// fakeLLM replays scripted replies in order. When the script runs out
// it repeats the last entry. A reply equal to errReply yields an error.
const errReply = "<error>"

type fakeLLM struct {
	mu      sync.Mutex
	replies []string
	prompts []string
	chats   [][]driven.ChatMessage
}

func (f *fakeLLM) next() (string, error) {
	var reply string
	switch {
	case len(f.replies) == 0:
		reply = ""
	case len(f.replies) == 1:
		reply = f.replies[0]
	default:
		reply = f.replies[0]
		f.replies = f.replies[1:]
	}
	if reply == errReply {
		return "", errors.New("generation service down")
	}
	return reply, nil
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.next()
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, messages)
	return f.next()
}

func (f *fakeLLM) ModelName() string            { return "fake-llm" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

func (f *fakeLLM) generateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeExtractor treats every non-empty line of a .txt file as one page.
// Files whose first line is "CORRUPT" fail extraction.
type fakeExtractor struct{}

func (fakeExtractor) Extensions() []string { return []string{".txt"} }

func (fakeExtractor) ListPages(_ context.Context, path string) ([]domain.PageText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && lines[0] == "CORRUPT" {
		return nil, domain.ErrCorruptFile
	}

	var pages []domain.PageText
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pages = append(pages, domain.PageText{Number: len(pages) + 1, Text: line})
	}
	return pages, nil
}

func (fakeExtractor) RenderPage(_ context.Context, path string, _ int) ([]byte, error) {
	return os.ReadFile(path)
}

type fakeRegistry struct{}

func (fakeRegistry) ForFile(path string) (driven.DocumentExtractor, error) {
	if !strings.EqualFold(filepath.Ext(path), ".txt") {
		return nil, domain.ErrUnsupportedFormat
	}
	return fakeExtractor{}, nil
}

func (fakeRegistry) Supported(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}
