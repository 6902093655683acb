package pipeline

import (
	"fmt"
	"io"
	"sync"
)

// syncWriter は複数のゴルーチンからの進捗出力を1行単位で直列化します。
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}
