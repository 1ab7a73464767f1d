package bump

import (
	"fmt"
	"io"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/marco79423/bumpbuild/pkg/model"
	"golang.org/x/xerrors"
)

// Prompter 顯示提示並回傳使用者的輸入
type Prompter func(suggests []prompt.Suggest) string

// TerminalPrompter 使用 go-prompt 在終端機詢問
func TerminalPrompter(suggests []prompt.Suggest) string {
	return prompt.Input("> ", func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	})
}

var modeSuggests = []prompt.Suggest{
	{Text: model.BumpMinor.String(), Description: "小版號 +1"},
	{Text: model.BumpMajor.String(), Description: "主版號與小版號都 +1"},
	{Text: model.BumpUpset.String(), Description: "主版號 +1，小版號歸零"},
}

// 沒有輸入時最多詢問的次數
const maxPromptAttempts = 3

// 詢問更新方式，沒有輸入時會重新詢問
func promptMode(w io.Writer, prompter Prompter) (model.BumpMode, error) {
	rawMode := ""
	for attempt := 0; rawMode == ""; attempt++ {
		if attempt == maxPromptAttempts {
			return model.BumpMinor, xerrors.Errorf("詢問更新方式失敗: 沒有輸入")
		}
		fmt.Fprintln(w, "請選擇更新方式: minor, major, upset")
		rawMode = strings.TrimSpace(prompter(modeSuggests))
	}

	mode, err := model.ParseBumpMode(rawMode)
	if err != nil {
		return model.BumpMinor, xerrors.Errorf("詢問更新方式失敗: %w", err)
	}
	return mode, nil
}
