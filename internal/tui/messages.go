package tui

import "github.com/Veraticus/fraudwatch/internal/inference"

// detectionResultMsg carries the outcome of one Detect Fraud press.
type detectionResultMsg struct {
	result inference.Result
	seq    int
}
