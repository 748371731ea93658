package auth

import (
	"encoding/json"
	"errors"
	"strconv"
)

// IdentityKey 请求上下文中存放已解析身份的键
const IdentityKey = "identity"

// Identity 每个请求从已验证令牌解析出的身份，
// 只存活于请求生命周期内
type Identity struct {
	UserID   int64
	Username string
}

var errBadSubjectID = errors.New("unrecognized subject id representation")

// NormalizeSubjectID 将主体 id 的不同表示归一为 int64 再参与比较。
// JWT 声明经 JSON 解码后数字是 float64，GORM 主键是 int64，
// 路径参数是字符串，不归一直接比较会产生假阴性
func NormalizeSubjectID(v interface{}) (int64, error) {
	switch id := v.(type) {
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case uint:
		return int64(id), nil
	case uint64:
		return int64(id), nil
	case float64:
		return int64(id), nil
	case json.Number:
		return id.Int64()
	case string:
		return strconv.ParseInt(id, 10, 64)
	default:
		return 0, errBadSubjectID
	}
}
