package domain

// Phase は生成の工程です。
type Phase string

const (
	PhaseText  Phase = "text"
	PhaseImage Phase = "image"
)

// ProgressEvent は各リモート呼び出しの直前に通知される進捗です。
type ProgressEvent struct {
	Phase Phase `json:"phase"`
	Page  int   `json:"page"`
	Total int   `json:"total"`
}

// ProgressFunc は進捗を同期的に受け取るコールバックです。
type ProgressFunc func(ProgressEvent)
