package meta

type HttpResponse struct {
	Error string      `json:"error"` // 如果不为空代表错误信息
	Data  interface{} `json:"data"`
	Code  int         `json:"code"`
}

// Query 链上查询请求
type Query struct {
	Type       string   `json:"type"`
	Parameters []string `json:"parameters"`
}
