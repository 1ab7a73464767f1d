package model

import "fmt"

// Version 是嵌在原始碼中的 build number (major.minor)
type Version struct {
	Major int
	Minor int
}

// String 回傳 tag 用的格式，例如 v3.8
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d", v.Major, v.Minor)
}

// Literal 回傳寫回檔案時引號內的格式，例如 3.8
func (v Version) Literal() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Bump 依照更新請求計算新的版號
//
// 小版號一律 +1，除非要求歸零；要求更新主版號時主版號 +1
func (v Version) Bump(updateMajor, resetMinor bool) Version {
	next := v
	if resetMinor {
		next.Minor = 0
	} else {
		next.Minor++
	}
	if updateMajor {
		next.Major++
	}
	return next
}
