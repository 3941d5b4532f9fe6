// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RunLog is the plain-text run transcript written alongside the terminal
// output. The file is size-rotated so repeated runs keep history instead of
// overwriting it. Everything written through it is masked.
type RunLog struct {
	logger *log.Logger
	sink   *lumberjack.Logger
}

// NewRunLog opens (or creates) the run log at path.
func NewRunLog(path string) *RunLog {
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
	}
	return &RunLog{
		logger: log.New(sink, "", log.LstdFlags),
		sink:   sink,
	}
}

// Printf writes one masked line to the run log.
func (r *RunLog) Printf(format string, args ...any) {
	if r == nil {
		return
	}
	r.logger.Printf("%s", Mask(fmt.Sprintf(format, args...)))
}

// Close flushes and closes the underlying file.
func (r *RunLog) Close() error {
	if r == nil {
		return nil
	}
	return r.sink.Close()
}
