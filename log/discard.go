// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"fmt"
	"io"
	golog "log"
	"os"
)

// DiscardLogger drops every message. Tests hand it to the registry, the loader,
// the bundle sources and the console API to keep their output quiet. Fatal and
// Panic messages are dropped too, but the process still exits or panics.
var DiscardLogger Logger = silent{}

var (
	silentOutputs   = []io.Writer{io.Discard}
	silentStdLogger = golog.New(io.Discard, "", 0)
	// exit is swapped in tests
	exit = os.Exit
)

type silent struct{}

// enforce compilation error
var _ Logger = silent{}

func (silent) Debug(...any)          {}
func (silent) Debugf(string, ...any) {}
func (silent) Info(...any)           {}
func (silent) Infof(string, ...any)  {}
func (silent) Warn(...any)           {}
func (silent) Warnf(string, ...any)  {}
func (silent) Error(...any)          {}
func (silent) Errorf(string, ...any) {}

func (silent) Fatal(...any)          { exit(1) }
func (silent) Fatalf(string, ...any) { exit(1) }

func (silent) Panic(v ...any) {
	panic(fmt.Sprint(v...))
}

func (silent) Panicf(format string, v ...any) {
	panic(fmt.Sprintf(format, v...))
}

// LogLevel reports InfoLevel so that callers checking the level behave as in production.
func (silent) LogLevel() Level { return InfoLevel }

// Enabled reports true only for the levels that still have an effect.
func (silent) Enabled(level Level) bool {
	return level == FatalLevel || level == PanicLevel
}

func (x silent) With(...any) Logger     { return x }
func (silent) LogOutput() []io.Writer   { return silentOutputs }
func (silent) StdLogger() *golog.Logger { return silentStdLogger }
func (silent) Flush() error             { return nil }
