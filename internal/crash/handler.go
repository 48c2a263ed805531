package crash

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
)

// exitDelay gives the rotating log writer time to flush before a fatal exit
const exitDelay = time.Second

// RecoverWithStack recovers a panic and logs it with the stack trace
func RecoverWithStack(moduleName string) {
	if r := recover(); r != nil {
		report("PANIC", moduleName, r)
	}
}

// RecoverWithStackAndExit is the main goroutine variant, it exits after logging
func RecoverWithStackAndExit(moduleName string) {
	if r := recover(); r != nil {
		report("FATAL PANIC", moduleName, r)
		time.Sleep(exitDelay)
		os.Exit(1)
	}
}

// SafeGoroutine starts fn in a goroutine that recovers from panics
func SafeGoroutine(name string, fn func()) {
	go func() {
		defer RecoverWithStack("goroutine-" + name)
		fn()
	}()
}

func report(kind, moduleName string, r interface{}) {
	stack := debug.Stack()
	metrics.Panics.WithLabelValues(moduleName).Inc()

	logger.Errorf("%s in %s: %v\n%s", kind, moduleName, r, stack)
	logger.Error(runtimeInfo())

	// stderr is what container logs keep
	fmt.Fprintf(os.Stderr, "[%s] %s - %s: %v\n%s\n", kind, time.Now().Format(time.DateTime), moduleName, r, stack)
}

func runtimeInfo() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("runtime: go=%s cpus=%d goroutines=%d heap=%dKB stack=%dKB gc=%d",
		runtime.Version(), runtime.NumCPU(), runtime.NumGoroutine(),
		m.HeapInuse/1024, m.StackInuse/1024, m.NumGC)
}

// SetupCrashHandler turns memory faults into recoverable panics
func SetupCrashHandler() {
	debug.SetPanicOnFault(true)
}
