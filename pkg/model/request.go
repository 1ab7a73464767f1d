package model

import "golang.org/x/xerrors"

// BumpMode 是更新 build number 的方式
type BumpMode int

const (
	// BumpMinor 只更新小版號
	BumpMinor BumpMode = iota
	// BumpMajor 主版號與小版號都 +1
	BumpMajor
	// BumpUpset 主版號 +1 並將小版號歸零
	BumpUpset
)

var modeNames = map[BumpMode]string{
	BumpMinor: "minor",
	BumpMajor: "major",
	BumpUpset: "upset",
}

func (m BumpMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseBumpMode 解析 minor, major, upset
func ParseBumpMode(raw string) (BumpMode, error) {
	for mode, name := range modeNames {
		if name == raw {
			return mode, nil
		}
	}
	return BumpMinor, xerrors.Errorf("解析更新方式失敗: %q", raw)
}

// Request 是一次更新的請求
type Request struct {
	FilePath    string
	UpdateMajor bool
	ResetMinor  bool
}

// NewRequest 建立更新請求，upset 會強制同時更新主版號
func NewRequest(filePath string, mode BumpMode) Request {
	req := Request{FilePath: filePath}
	switch mode {
	case BumpMajor:
		req.UpdateMajor = true
	case BumpUpset:
		req.UpdateMajor = true
		req.ResetMinor = true
	}
	return req
}

// ModeFromFlags 依照 -m 與 -u 決定更新方式，-u 優先
func ModeFromFlags(major, upset bool) BumpMode {
	if upset {
		return BumpUpset
	}
	if major {
		return BumpMajor
	}
	return BumpMinor
}
