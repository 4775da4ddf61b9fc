// Package search runs batch pattern and heading searches over uploaded
// documents, fanning the work out on a shared unit pool.
package search

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docscan/internal/cache"
	"github.com/dgallion1/docscan/internal/chunker"
	"github.com/dgallion1/docscan/internal/config"
	"github.com/dgallion1/docscan/internal/doctree"
	"github.com/dgallion1/docscan/internal/extract"
	"github.com/dgallion1/docscan/internal/matcher"
	"github.com/dgallion1/docscan/internal/parser"
	"github.com/dgallion1/docscan/internal/pipeline"
	"github.com/dgallion1/docscan/internal/span"
)

// Unit kinds, as reported in latency stats.
const (
	KindLines   = "lines"
	KindMatch   = "match"
	KindSection = "section"
)

// Options carries the tunables handed down to parsers and the extractor.
type Options struct {
	Parser  parser.Options
	Extract extract.Options
}

// OptionsFromConfig maps the environment configuration onto search options.
func OptionsFromConfig(cfg config.Config) Options {
	ext := extract.DefaultOptions()
	if cfg.SectionMaxBlocks > 0 {
		ext.MaxBodyBlocks = cfg.SectionMaxBlocks
	}
	return Options{
		Parser:  parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext},
		Extract: ext,
	}
}

// Service coordinates the search phases from the calling goroutine. Units on
// the pool only ever parse or match; they never wait on other units.
type Service struct {
	pool  *pipeline.Pool
	cache *cache.DocCache
	opts  Options
	log   *slog.Logger
}

// New returns a Service. docs may be nil to disable caching.
func New(pool *pipeline.Pool, docs *cache.DocCache, opts Options, log *slog.Logger) *Service {
	return &Service{pool: pool, cache: docs, opts: opts, log: log}
}

// SearchPattern matches pattern case-insensitively against every line of
// every file. Files come back in submission order with their matches sorted
// by line number. Files with no matches are left out; files that could not
// be read are reported with Error set. An invalid pattern fails the call
// before any work is queued.
func (s *Service) SearchPattern(ctx context.Context, files []doctree.File, pattern string) ([]matcher.FileMatches, error) {
	re, err := matcher.Compile(pattern)
	if err != nil {
		return nil, err
	}

	fileErrs := make([]error, len(files))

	// Phase 1: extract lines for every file.
	lineFutures := make([]*pipeline.Future[[]string], len(files))
	for i, file := range files {
		p, err := parser.ForFile(file.Name, s.opts.Parser)
		if err != nil {
			fileErrs[i] = err
			continue
		}
		f, err := pipeline.Submit(ctx, s.pool, KindLines, func() ([]string, error) {
			return s.lines(file, p)
		})
		if err != nil {
			return nil, err
		}
		lineFutures[i] = f
	}

	// Phase 2: partition each file as soon as its lines are ready.
	matchFutures := make([][]*pipeline.Future[[]matcher.Match], len(files))
	for i, lf := range lineFutures {
		if lf == nil {
			continue
		}
		lines, err := lf.Wait(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			fileErrs[i] = err
			continue
		}
		name := files[i].Name
		for _, c := range chunker.Partition(lines, s.pool.Workers()) {
			f, err := pipeline.Submit(ctx, s.pool, KindMatch, func() ([]matcher.Match, error) {
				return matcher.MatchChunk(c, re, name), nil
			})
			if err != nil {
				return nil, err
			}
			matchFutures[i] = append(matchFutures[i], f)
		}
	}

	// Phase 3: join and aggregate per file, in submission order.
	out := []matcher.FileMatches{}
	for i, file := range files {
		err := fileErrs[i]
		if err == nil {
			var matches []matcher.Match
			matches, err = collect(ctx, matchFutures[i])
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if err == nil {
				if len(matches) > 0 {
					out = append(out, matcher.FileMatches{FileName: file.Name, Matches: matches})
				}
				continue
			}
		}
		s.log.Warn("file skipped", "file", file.Name, "error", err)
		out = append(out, matcher.Failed(file.Name, err))
	}
	return out, nil
}

func collect(ctx context.Context, futures []*pipeline.Future[[]matcher.Match]) ([]matcher.Match, error) {
	results, err := pipeline.WaitAll(ctx, futures)
	if err != nil {
		return nil, err
	}
	parts := make([][]matcher.Match, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("match chunk: %w", r.Err)
		}
		parts = append(parts, r.Value)
	}
	return matcher.Aggregate(parts...), nil
}

// ExtractHeadingSection returns exactly one record per file, in input order.
// Non-PDF files and files that fail to parse get an error-shaped record.
func (s *Service) ExtractHeadingSection(ctx context.Context, files []doctree.File, heading string) ([]extract.Section, error) {
	if err := extract.ValidateHeading(heading); err != nil {
		return nil, err
	}

	out := make([]extract.Section, len(files))
	futures := make([]*pipeline.Future[extract.Section], len(files))
	for i, file := range files {
		if ext := parser.Ext(file.Name); ext != ".pdf" {
			out[i] = extract.ErrorSection(file.Name, heading, fmt.Errorf("%w: %s", parser.ErrUnsupported, ext))
			continue
		}
		f, err := pipeline.Submit(ctx, s.pool, KindSection, func() (extract.Section, error) {
			doc, err := s.document(file)
			if err != nil {
				return extract.Section{}, err
			}
			return extract.ExtractSection(doc, file.Name, heading, s.opts.Extract), nil
		})
		if err != nil {
			return nil, err
		}
		futures[i] = f
	}

	for i, f := range futures {
		if f == nil {
			continue
		}
		sec, err := f.Wait(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.log.Warn("section extraction failed", "file", files[i].Name, "error", err)
			sec = extract.ErrorSection(files[i].Name, heading, err)
		}
		out[i] = sec
	}
	return out, nil
}

func (s *Service) lines(file doctree.File, p parser.Parser) ([]string, error) {
	key := cache.Key(cache.KindLines, parser.Ext(file.Name), file.Data)
	return cache.GetOrLoad(s.cache, key, func() ([]string, error) {
		return p.Lines(bytes.NewReader(file.Data))
	})
}

func (s *Service) document(file doctree.File) (*doctree.Document, error) {
	key := cache.Key(cache.KindSpans, ".pdf", file.Data)
	return cache.GetOrLoad(s.cache, key, func() (*doctree.Document, error) {
		return span.Extract(file.Data)
	})
}
