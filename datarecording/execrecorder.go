package datarecording

import (
	"os"
	"strings"
	"time"
)

const execTableName = "exec_info"

const timeLayout = "2006-01-02 15:04:05.000000000"

// execInfo is one property of the program execution.
type execInfo struct {
	Property string
	Value    string
}

// ExecRecorder records when and how the program was executed.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []execInfo
}

// NewExecRecorder creates an ExecRecorder that writes into the exec_info
// table of the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	e := &ExecRecorder{recorder: recorder}

	ensureTable(recorder, execTableName, execInfo{})

	return e
}

// Start notes the start time, the command line and the working directory.
func (e *ExecRecorder) Start() {
	e.entries = append(e.entries,
		execInfo{"Start Time", time.Now().Format(timeLayout)},
		execInfo{"Command", strings.Join(os.Args, " ")},
	)

	cwd, err := os.Getwd()
	if err == nil {
		e.entries = append(e.entries, execInfo{"Working Directory", cwd})
	}
}

// End writes the collected properties along with the exit time.
func (e *ExecRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(execTableName, entry)
	}

	e.recorder.InsertData(execTableName,
		execInfo{"End Time", time.Now().Format(timeLayout)})

	e.entries = nil

	e.recorder.Flush()
}

// ensureTable creates a table unless the recorder already has it.
func ensureTable(recorder DataRecorder, name string, sample any) {
	for _, t := range recorder.ListTables() {
		if t == name {
			return
		}
	}

	recorder.CreateTable(name, sample)
}
