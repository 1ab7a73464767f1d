// Package buildno 找出原始碼中的 BUILD_NO 並更新 build number
package buildno

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/marco79423/bumpbuild/pkg/model"
	"github.com/marco79423/bumpbuild/pkg/util"
	"golang.org/x/xerrors"
)

// Marker 是用來定位要修改那一行的字串
const Marker = "BUILD_NO"

var (
	ErrSourceNotFound = errors.New("source file not found")
	ErrMarkerNotFound = errors.New("build number not found")
	ErrWriteFailed    = errors.New("write source file failed")
)

var buildNoPattern = regexp.MustCompile(`\s*=\s*"(\d+)\.(\d+)"(.*)`)

// Options 是更新的選項
type Options struct {
	UpdateMajor bool
	ResetMinor  bool
	// Atomic 為 true 時先寫到暫存檔再 rename，否則直接覆寫原檔
	Atomic bool
}

// Result 是更新的結果
type Result struct {
	Path       string
	Line       int
	OldVersion model.Version
	NewVersion model.Version
}

// Update 更新檔案中的 build number，成功回傳 true
//
// 找不到檔案時會印出訊息，其他失敗則直接回傳 false
func Update(path string, updateMajor, resetMinor bool) bool {
	_, err := UpdateFile(context.Background(), path, Options{UpdateMajor: updateMajor, ResetMinor: resetMinor})
	if errors.Is(err, ErrSourceNotFound) {
		fmt.Println(NotFoundMessage(path))
	}
	return err == nil
}

// NotFoundMessage 是找不到檔案時顯示的訊息
func NotFoundMessage(path string) string {
	return "Could not open source file:" + path
}

// UpdateFile 讀入整個檔案，更新第一個符合的 BUILD_NO 那一行並寫回
func UpdateFile(ctx context.Context, path string, opts Options) (Result, error) {
	logger := util.LoggerFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, xerrors.Errorf("讀取 %s 失敗: %w", path, ErrSourceNotFound)
		}
		return Result{}, xerrors.Errorf("讀取 %s 失敗: %w", path, err)
	}

	lines := splitLines(string(data))
	result, updated := rewriteLines(lines, opts)
	if !updated {
		logger.Debug("找不到 build number", "file", path)
		return Result{}, xerrors.Errorf("更新 %s 失敗: %w", path, ErrMarkerNotFound)
	}
	result.Path = path
	logger.Debug("更新 build number",
		"file", path,
		"line", result.Line,
		"from", result.OldVersion.Literal(),
		"to", result.NewVersion.Literal(),
	)

	content := strings.Join(lines, "")
	if opts.Atomic {
		err = renameio.WriteFile(path, []byte(content), fileMode(path))
	} else {
		err = os.WriteFile(path, []byte(content), fileMode(path))
	}
	if err != nil {
		return Result{}, xerrors.Errorf("寫入 %s 失敗: %v: %w", path, err, ErrWriteFailed)
	}

	return result, nil
}

// rewriteLines 就地修改 lines，回傳是否有更新
//
// 只有成功更新後才會停止比對；BUILD_NO 後面格式不符時會繼續找下一行。
func rewriteLines(lines []string, opts Options) (Result, bool) {
	for i, line := range lines {
		newLine, oldVersion, newVersion, ok := rewriteLine(line, opts)
		if !ok {
			continue
		}
		lines[i] = newLine
		return Result{Line: i + 1, OldVersion: oldVersion, NewVersion: newVersion}, true
	}
	return Result{}, false
}

func rewriteLine(line string, opts Options) (string, model.Version, model.Version, bool) {
	pos := strings.Index(line, Marker)
	if pos == -1 {
		return "", model.Version{}, model.Version{}, false
	}
	head := line[:pos+len(Marker)]
	rest := strings.TrimSuffix(line[pos+len(Marker):], "\n")

	matches := buildNoPattern.FindStringSubmatch(rest)
	if matches == nil {
		return "", model.Version{}, model.Version{}, false
	}

	oldVersion, err := parseVersion(matches[1], matches[2])
	if err != nil {
		return "", model.Version{}, model.Version{}, false
	}
	// 超過 int 上限時視為不符合
	if (!opts.ResetMinor && oldVersion.Minor == math.MaxInt) || (opts.UpdateMajor && oldVersion.Major == math.MaxInt) {
		return "", model.Version{}, model.Version{}, false
	}
	newVersion := oldVersion.Bump(opts.UpdateMajor, opts.ResetMinor)

	return head + ` = "` + newVersion.Literal() + `"` + matches[3] + "\n", oldVersion, newVersion, true
}

func parseVersion(rawMajor, rawMinor string) (model.Version, error) {
	major, err := strconv.Atoi(rawMajor)
	if err != nil {
		return model.Version{}, xerrors.Errorf("解析主版號失敗: %w", err)
	}
	minor, err := strconv.Atoi(rawMinor)
	if err != nil {
		return model.Version{}, xerrors.Errorf("解析小版號失敗: %w", err)
	}
	return model.Version{Major: major, Minor: minor}, nil
}

// splitLines 切割成多行並保留換行字元
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func fileMode(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0644
	}
	return info.Mode().Perm()
}
