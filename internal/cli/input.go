// Package cli implements an interactive word-check shell used for manual
// testing and debugging, independent of the trace subcommand's msgpack
// wire format.
//
// This REPL loop asks a multiindex.MultiIndex whether a whole word is
// recognized and, if not, prints its suggestion, using the same prompt
// loop, request-count bookkeeping, and input filtering shape as a
// prefix-completion REPL.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/csc-dev/codespell/internal/utils"
	"github.com/csc-dev/codespell/pkg/multiindex"
)

// InputHandler drives an interactive "type a word, see if it's known"
// loop against a MultiIndex. It accepts flags controlling input-length
// bounds and whether junk input is filtered before lookup.
type InputHandler struct {
	mi              *multiindex.MultiIndex
	minPrefixLength int
	maxPrefixLength int
	requestCount    int
	noFilter        bool
}

// NewInputHandler creates an InputHandler checking words against mi.
func NewInputHandler(mi *multiindex.MultiIndex, minLength, maxLength int, noFilter bool) *InputHandler {
	return &InputHandler{
		mi:              mi,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		noFilter:        noFilter,
	}
}

// Start begins the interface loop: prompt, read a line from stdin, pass
// the trimmed word to handleInput. The loop terminates when stdin closes
// or errors.
func (h *InputHandler) Start() error {
	log.Print("code-spellcheck word check [dbg]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a word and press Enter to check it (Ctrl+C to exit):")

	for {
		log.Print("> ")
		word, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		h.handleInput(word)
	}
}

// handleInput validates word's length and content, then reports whether
// it's a member of the multi-index and, if not, its suggested correction.
func (h *InputHandler) handleInput(word string) {
	h.requestCount++

	if len(word) < h.minPrefixLength {
		log.Errorf("word too short: %s", word)
		return
	}
	if h.maxPrefixLength > 0 && len(word) > h.maxPrefixLength {
		log.Errorf("word too long: %s", word)
		return
	}

	if !h.noFilter {
		if !utils.IsValidInput(word) {
			log.Infof("skipped (looks like junk input): %q", word)
			return
		}
	} else {
		log.Debug("input filtering disabled - checking raw word as typed")
	}

	start := time.Now()
	lower := strings.ToLower(word)
	correct := h.mi.Contains(lower)
	elapsed := time.Since(start)

	log.Debugf("took [ %v ] for word '%s'", elapsed, word)
	log.Debugf("checked %s requests so far", utils.FormatWithCommas(h.requestCount))

	if correct {
		log.Printf("\033[38;5;75m%s\033[0m is recognized", word)
		return
	}

	if suggestion, ok := h.mi.Suggestion(lower); ok {
		log.Printf("%-30s not recognized, did you mean: %s?", fmt.Sprintf("\033[38;5;203m%s\033[0m", word), suggestion)
		return
	}
	log.Warnf("%s not recognized, no suggestion found", word)
}
