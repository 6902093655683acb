package pipeline

// State は1回の生成実行の状態です。
type State int

const (
	StateIdle State = iota
	StateGeneratingText
	StateGeneratingImages
	StateDone
	StateFailed // 本文フェーズからのみ遷移する
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGeneratingText:
		return "generating_text"
	case StateGeneratingImages:
		return "generating_images"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StateObserver は状態遷移ごとに呼ばれるフックです。page は対象ページ（無い場合は 0）です。
type StateObserver func(state State, page int)
