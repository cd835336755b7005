package play

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fabulatree/fabula/pkg/story"
)

// Notices and banners emitted by Run. The exact phrasing is observable
// behavior and is kept stable for compatibility.
const (
	noticeNoRoot       = "No root node. Cannot play game."
	bannerBegin        = "===== Begin Adventure ====="
	bannerComplete     = "===== Adventure Complete ====="
	noticeNoPaths      = "There are no further paths."
	noticeJourneyEnds  = "Your journey ends here."
	noticeChoosePrompt = "Choose your next action:"
	promptSelection    = "Selection: "
	noticeInputError   = "Input error or EOF. Ending adventure."
	noticeNeedNumber   = "Please enter a number corresponding to your choice."
	noticeNotANumber   = "Invalid selection. Please enter a number."
	noticeBadNumber    = "Invalid selection. Please enter a valid number."
	noticeOutOfRange   = "Choice out of range. Please select a valid option."
)

// Run plays the story interactively from the root node. It reads one line
// from in per prompt and writes all prompts, listings, and notices to out.
//
// Recoverable input mistakes re-prompt at the same node; end of input (or a
// read failure) ends the session gracefully. The returned error is non-nil
// only when writing to out fails - user input never produces an error.
func Run[T any](t *story.Tree[T], in io.Reader, out io.Writer) error {
	p := &printer{w: out}

	sess, err := NewSession(t)
	if err != nil {
		p.line(noticeNoRoot)
		return p.err
	}

	lines := bufio.NewScanner(in)

	p.line(bannerBegin)
	p.line("")

	for {
		p.line(sess.Current().Text())

		if sess.Done() {
			p.line(noticeNoPaths)
			p.line(noticeJourneyEnds)
			p.line("")
			break
		}

		p.line(noticeChoosePrompt)
		for i, child := range sess.Choices() {
			p.linef("%d. %s", i+1, child.Text())
		}

		p.print(promptSelection)
		if !lines.Scan() {
			p.line("")
			p.line(noticeInputError)
			break
		}

		input := strings.TrimSpace(lines.Text())
		if input == "" {
			p.line(noticeNeedNumber)
			continue
		}
		if !isNumeric(input) {
			p.line(noticeNotANumber)
			continue
		}

		choice, err := strconv.Atoi(input)
		if err != nil {
			// All-digit input that still fails to parse has overflowed.
			p.line(noticeBadNumber)
			continue
		}

		if _, err := sess.Choose(choice); err != nil {
			p.line(noticeOutOfRange)
			continue
		}
		p.line("")
	}

	p.line(bannerComplete)
	return p.err
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// printer writes lines to a sink and remembers the first write failure, so
// the loop body stays free of error plumbing.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) print(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) line(s string) {
	p.print(s + "\n")
}

func (p *printer) linef(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}
