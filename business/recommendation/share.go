package recommendation

import (
	"fmt"
	"strconv"
	"strings"

	"wildNest/domain"

	"github.com/pobyzaarif/goshortcute"
)

const shareCodePrefix = "rl|"

// encodeShareCode hides a log id behind AES-CBC so shared links cannot be
// enumerated. Codes travel as a query parameter.
func encodeShareCode(logID uint64, key string) (string, error) {
	encrypted, err := goshortcute.AESCBCEncrypt([]byte(fmt.Sprintf("%s%d", shareCodePrefix, logID)), []byte(key))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt share code: %w", err)
	}

	return goshortcute.StringtoBase64Encode(encrypted), nil
}

func decodeShareCode(code, key string) (logID uint64, err error) {
	defer func() {
		if r := recover(); r != nil {
			logID, err = 0, domain.ErrInvalidShareCode
		}
	}()

	code = strings.TrimSpace(code)
	if code == "" {
		return 0, domain.ErrInvalidShareCode
	}

	decoded := goshortcute.StringtoBase64Decode(code)
	if decoded == "" {
		return 0, domain.ErrInvalidShareCode
	}

	plain, err := goshortcute.AESCBCDecrypt([]byte(decoded), []byte(key))
	if err != nil || !strings.HasPrefix(plain, shareCodePrefix) {
		return 0, domain.ErrInvalidShareCode
	}

	logID, err = strconv.ParseUint(strings.TrimPrefix(plain, shareCodePrefix), 10, 64)
	if err != nil || logID == 0 {
		return 0, domain.ErrInvalidShareCode
	}

	return logID, nil
}
