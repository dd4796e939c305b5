package tools

import (
	"crypto/md5"
	"encoding/hex"
)

func MD5Bytes(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}
