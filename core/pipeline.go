package core

import (
	"errors"
	"fmt"
	"io"

	"checadas.com/ponches/model"
	"checadas.com/ponches/utils"
)

var ErrNoValidData = errors.New("no valid data")

// FileResult is the outcome of reading one input file. When Err is set the
// file contributes no events at all.
type FileResult struct {
	Name    string
	Events  []model.PunchEvent
	Lines   int
	Skipped int
	Err     error
}

func (fr FileResult) Failed() bool {
	return fr.Err != nil
}

// Empty reports a file that was read fine but held no valid punch.
func (fr FileResult) Empty() bool {
	return fr.Err == nil && len(fr.Events) == 0
}

// ParseFile parses every line of r. Malformed and over-long lines are
// skipped and counted; only a read error fails the file.
func ParseFile(name string, r io.Reader) FileResult {
	res := FileResult{Name: name}
	err := utils.EachLine(r, func(line string, tooLong bool) {
		res.Lines++
		if tooLong {
			res.Skipped++
			return
		}
		e, ok := ParseLine(line)
		if !ok {
			res.Skipped++
			return
		}
		res.Events = append(res.Events, e)
	})
	if err != nil {
		return FileResult{Name: name, Err: fmt.Errorf("failed to read %s: %w", name, err)}
	}
	return res
}

// FailedFile records a file that could not be opened.
func FailedFile(name string, err error) FileResult {
	return FileResult{Name: name, Err: err}
}

type Stats struct {
	Files        int `json:"files"`
	FailedFiles  int `json:"failedFiles"`
	EmptyFiles   int `json:"emptyFiles"`
	Lines        int `json:"lines"`
	ValidLines   int `json:"validLines"`
	SkippedLines int `json:"skippedLines"`
	Unique       int `json:"unique"`
	Duplicates   int `json:"duplicates"`
	Rows         int `json:"rows"`
}

type Result struct {
	Rows  []model.ReportRow
	Stats Stats
}

// Build runs deduplication, daily reduction and ordering over the files in
// the order given. Failed files are counted and ignored. ErrNoValidData is
// returned, together with the stats gathered, when nothing survives.
func Build(files []FileResult, order IDOrder) (Result, error) {
	var stats Stats
	var events []model.PunchEvent

	stats.Files = len(files)
	for _, f := range files {
		if f.Failed() {
			stats.FailedFiles++
			continue
		}
		if f.Empty() {
			stats.EmptyFiles++
		}
		stats.Lines += f.Lines
		stats.SkippedLines += f.Skipped
		stats.ValidLines += len(f.Events)
		events = append(events, f.Events...)
	}

	unique := Dedupe(events)
	stats.Unique = len(unique)
	stats.Duplicates = len(events) - len(unique)

	rows := Assemble(ReduceDaily(unique), order)
	stats.Rows = len(rows)

	if len(rows) == 0 {
		return Result{Stats: stats}, ErrNoValidData
	}
	return Result{Rows: rows, Stats: stats}, nil
}
