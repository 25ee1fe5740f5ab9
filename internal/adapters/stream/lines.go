// Package stream normalizes line-oriented input, one identifier token per
// line, optionally spread over a worker pool.
package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_heading_command/internal/ports"
)

const (
	// DefaultBatchSize defines how many lines a worker gets per job
	DefaultBatchSize = 100

	// MaxJobQueueSize limits the number of pending jobs
	MaxJobQueueSize = 32

	// MaxLineSize is the longest line the scanner accepts
	MaxLineSize = 1024 * 1024
)

// Config defines configuration for line processing
type Config struct {
	// BatchSize of 0 means DefaultBatchSize.
	BatchSize int
	// Workers of 0 means runtime.NumCPU(); 1 processes inline.
	Workers int
	// KeepEmpty writes an empty token for blank lines instead of skipping them.
	KeepEmpty bool
}

// Result summarizes a processing run
type Result struct {
	Lines  int
	Tokens int
	Bytes  int64
}

// LineNormalizer writes Normalize(line) for every input line, in input order
type LineNormalizer struct {
	logger     ports.Logger
	normalizer ports.Normalizer
	config     Config
}

// NewLineNormalizer creates a new line normalizer
func NewLineNormalizer(logger ports.Logger, normalizer ports.Normalizer, config Config) *LineNormalizer {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	return &LineNormalizer{
		logger:     logger,
		normalizer: normalizer,
		config:     config,
	}
}

type job struct {
	lines   []string
	chunkID int
}

type jobResult struct {
	tokens  []string
	chunkID int
}

// Process reads reader line by line and writes one token per line to writer.
func (p *LineNormalizer) Process(ctx context.Context, reader io.Reader, writer io.Writer) (Result, error) {
	startTime := time.Now()

	var (
		res Result
		err error
	)
	if p.config.Workers == 1 {
		res, err = p.processSequential(ctx, reader, writer)
	} else {
		res, err = p.processParallel(ctx, reader, writer)
	}
	if err != nil {
		p.logger.Warn("Line processing failed", "error", err, "lines", res.Lines)
		return res, err
	}

	p.logger.Debug("Line processing completed",
		"lines", res.Lines,
		"tokens", res.Tokens,
		"bytes_processed", res.Bytes,
		"workers", p.config.Workers,
		"duration", time.Since(startTime),
	)
	return res, nil
}

func (p *LineNormalizer) newScanner(reader io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return scanner
}

func (p *LineNormalizer) processSequential(ctx context.Context, reader io.Reader, writer io.Writer) (Result, error) {
	var res Result
	out := bufio.NewWriter(writer)
	scanner := p.newScanner(reader)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		line := scanner.Text()
		res.Lines++
		res.Bytes += int64(len(line)) + 1
		token, ok := p.normalizeLine(line)
		if !ok {
			continue
		}
		res.Tokens++
		if _, err := fmt.Fprintln(out, token); err != nil {
			return res, err
		}
	}
	if err := scanner.Err(); err != nil {
		return res, err
	}
	return res, out.Flush()
}

// processParallel fans batches out to workers and writes their results back
// in chunk order.
func (p *LineNormalizer) processParallel(parent context.Context, reader io.Reader, writer io.Writer) (Result, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	jobs := make(chan job, MaxJobQueueSize)
	results := make(chan jobResult, p.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < p.config.Workers; i++ {
		wg.Add(1)
		go p.worker(ctx, jobs, results, &wg)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		res  Result
		sent int
	)
	readErr := make(chan error, 1)
	go func() {
		defer close(jobs)
		scanner := p.newScanner(reader)
		chunkID := 0
		batch := make([]string, 0, p.config.BatchSize)

		send := func() bool {
			if len(batch) == 0 {
				return true
			}
			select {
			case jobs <- job{lines: batch, chunkID: chunkID}:
				chunkID++
				batch = make([]string, 0, p.config.BatchSize)
				return true
			case <-ctx.Done():
				return false
			}
		}

		for scanner.Scan() {
			line := scanner.Text()
			res.Lines++
			res.Bytes += int64(len(line)) + 1
			batch = append(batch, line)
			if len(batch) >= p.config.BatchSize && !send() {
				readErr <- ctx.Err()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			readErr <- err
			return
		}
		if !send() {
			readErr <- ctx.Err()
			return
		}
		sent = chunkID
		readErr <- nil
	}()

	out := bufio.NewWriter(writer)
	pending := make(map[int][]string)
	next := 0
	var writeErr error
	for r := range results {
		pending[r.chunkID] = r.tokens
		for {
			tokens, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if writeErr != nil {
				continue
			}
			for _, token := range tokens {
				if _, err := fmt.Fprintln(out, token); err != nil {
					writeErr = err
					cancel()
					break
				}
				res.Tokens++
			}
		}
	}

	// results is closed only after the reader closed jobs, so readErr is set
	// and res.Lines and sent are final.
	if err := <-readErr; err != nil && writeErr == nil {
		return res, err
	}
	if writeErr != nil {
		return res, writeErr
	}
	// Workers skip jobs once the context is done, so a cancellation after
	// the last job was queued leaves gaps in the output.
	if err := parent.Err(); err != nil {
		return res, err
	}
	if next < sent {
		return res, fmt.Errorf("line normalizer: %d of %d batches not processed", sent-next, sent)
	}
	return res, out.Flush()
}

func (p *LineNormalizer) worker(ctx context.Context, jobs <-chan job, results chan<- jobResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range jobs {
		if ctx.Err() != nil {
			continue
		}
		tokens := make([]string, 0, len(j.lines))
		for _, line := range j.lines {
			if token, ok := p.normalizeLine(line); ok {
				tokens = append(tokens, token)
			}
		}
		results <- jobResult{tokens: tokens, chunkID: j.chunkID}
	}
}

func (p *LineNormalizer) normalizeLine(line string) (string, bool) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" && !p.config.KeepEmpty {
		return "", false
	}
	return p.normalizer.Normalize(line), true
}
