package world

import (
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

type dialogPolicy struct {
	accept     bool
	promptText string
}

// ExpectDialog задает реакцию на следующий alert/confirm/prompt.
// Без явной настройки диалоги закрываются отказом.
func (w *World) ExpectDialog(accept bool, promptText string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextDialog = &dialogPolicy{accept: accept, promptText: promptText}
}

// LastDialog возвращает текст последнего показанного диалога.
func (w *World) LastDialog() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastDialog
}

// dialogAction забирает настроенную реакцию, она действует на один диалог.
func (w *World) dialogAction(message string) dialogPolicy {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastDialog = message
	policy := dialogPolicy{}
	if w.nextDialog != nil {
		policy = *w.nextDialog
		w.nextDialog = nil
	}
	return policy
}

func (w *World) handleDialog(dialog playwright.Dialog) {
	policy := w.dialogAction(dialog.Message())

	var err error
	if policy.accept {
		if policy.promptText != "" {
			err = dialog.Accept(policy.promptText)
		} else {
			err = dialog.Accept()
		}
	} else {
		err = dialog.Dismiss()
	}

	w.Log.Debug("Диалог",
		zap.String("type", dialog.Type()),
		zap.String("message", dialog.Message()),
		zap.Bool("accepted", policy.accept),
		zap.Error(err),
	)
}
