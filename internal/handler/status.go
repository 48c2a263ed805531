package handler

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"tg-warn/internal/logger"
)

// handler statistics
var (
	totalMessagesProcessed int64
	totalChannelPosts      int64
	totalChatMemberUpdates int64
	totalCallbackQueries   int64
	totalErrors            int64
	activeHandlers         int64
	handlersWG             sync.WaitGroup
	startTime              = time.Now()
)

// track counts an update and marks a handler as running until the returned
// func is called
func track(counter *int64) func() {
	atomic.AddInt64(counter, 1)
	atomic.AddInt64(&activeHandlers, 1)
	handlersWG.Add(1)
	return func() {
		atomic.AddInt64(&activeHandlers, -1)
		handlersWG.Done()
	}
}

func addError() {
	atomic.AddInt64(&totalErrors, 1)
}

// WaitForHandlers blocks until every running handler returned
func WaitForHandlers() {
	handlersWG.Wait()
}

func GetActiveHandlersCount() int {
	return int(atomic.LoadInt64(&activeHandlers))
}

// GetProcessingStats returns the handler counters and runtime figures
func GetProcessingStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"uptime_seconds":            int64(time.Since(startTime).Seconds()),
		"total_messages":            atomic.LoadInt64(&totalMessagesProcessed),
		"total_channel_posts":       atomic.LoadInt64(&totalChannelPosts),
		"total_chat_member_updates": atomic.LoadInt64(&totalChatMemberUpdates),
		"total_callback_queries":    atomic.LoadInt64(&totalCallbackQueries),
		"total_errors":              atomic.LoadInt64(&totalErrors),
		"active_handlers":           GetActiveHandlersCount(),
		"memory_usage_mb":           bToMb(m.Alloc),
		"sys_memory_mb":             bToMb(m.Sys),
		"gc_runs":                   m.NumGC,
		"goroutines":                runtime.NumGoroutine(),
	}
}

// LogProcessingStats logs the counters
func LogProcessingStats() {
	stats := GetProcessingStats()
	logger.Infof("Processing stats: %+v", stats)

	if active := stats["active_handlers"].(int); active > 80 {
		logger.Warningf("High number of active handlers: %d", active)
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

// GetDetailedStatus renders the counters for the debug endpoint
func GetDetailedStatus() string {
	stats := GetProcessingStats()
	return fmt.Sprintf(`
=== WARN Processing Status ===
Uptime: %d seconds
Messages Processed: %d
Channel Posts: %d
Chat Member Updates: %d
Callback Queries: %d
Errors: %d
Active Handlers: %d
Memory Usage: %d MB
System Memory: %d MB
GC Runs: %d
Goroutines: %d
==============================`,
		stats["uptime_seconds"],
		stats["total_messages"],
		stats["total_channel_posts"],
		stats["total_chat_member_updates"],
		stats["total_callback_queries"],
		stats["total_errors"],
		stats["active_handlers"],
		stats["memory_usage_mb"],
		stats["sys_memory_mb"],
		stats["gc_runs"],
		stats["goroutines"],
	)
}
