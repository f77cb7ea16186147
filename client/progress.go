package client

import (
	"io"

	"github.com/sahib/zftp/session"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
)

type barProgress struct {
	p     *mpb.Progress
	bar   *mpb.Bar
	total int64
	done  int64
}

func (bp *barProgress) Add(n int) {
	if n <= 0 {
		return
	}

	bp.done += int64(n)
	bp.bar.IncrBy(n)
}

func (bp *barProgress) Done(err error) {
	// A bar that never completes would block Wait() forever:
	if rest := bp.total - bp.done; rest > 0 {
		bp.bar.IncrBy(int(rest))
	}

	bp.p.Wait()
}

type silentProgress struct{}

func (silentProgress) Add(n int)      {}
func (silentProgress) Done(err error) {}

// NewProgressFunc draws a progress bar on `w` for every transfer.
// Empty transfers get no bar.
func NewProgressFunc(w io.Writer) session.ProgressFunc {
	return func(path string, size int64) session.Progress {
		if size <= 0 {
			return silentProgress{}
		}

		p := mpb.New(mpb.WithOutput(w))
		bar := p.AddBar(
			size,
			mpb.PrependDecorators(decor.Name(path)),
			mpb.AppendDecorators(decor.Percentage()),
		)

		return &barProgress{p: p, bar: bar, total: size}
	}
}
