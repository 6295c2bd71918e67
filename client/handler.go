package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cloudflare/cfssl/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ssbcDeploy/chain"
	"github.com/ssbcDeploy/contract"
	"github.com/ssbcDeploy/meta"
	"github.com/ssbcDeploy/storage"
)

// Backend 处理请求所需的账本操作，*chain.Ledger 实现了该接口
type Backend interface {
	Submit(ctx context.Context, tx meta.Transaction) (common.Hash, error)
	Instance(ctx context.Context, address common.Address) (meta.Instance, error)
	Receipt(ctx context.Context, hash common.Hash) (meta.Receipt, error)
	Block(ctx context.Context, height uint64) (meta.Block, error)
	Height(ctx context.Context) (uint64, error)
}

// 请求体上限，签名交易和查询都远小于该值
const maxBodyBytes = 1 << 20

type handler struct {
	backend Backend
}

// 解码请求体，超过 maxBodyBytes 时返回 413
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, err
	}
	return http.StatusBadRequest, err
}

//提交一笔已签名的交易
func (h *handler) postTran(w http.ResponseWriter, r *http.Request) {
	t := meta.Transaction{}
	if status, err := decodeBody(w, r, &t); err != nil {
		log.Error("[postTran],json decode err:", err)
		writeJSON(w, status, errResponse(status, "交易格式错误"))
		return
	}
	hash, err := h.backend.Submit(r.Context(), t)
	if err != nil {
		log.Infof("[postTran] 交易被拒绝: %v", err)
		status := statusOf(err)
		writeJSON(w, status, errResponse(status, err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, goodResponse(hash.Hex()))
}

//链上信息query服务
func (h *handler) query(w http.ResponseWriter, r *http.Request) {
	q := meta.Query{}
	if status, err := decodeBody(w, r, &q); err != nil {
		log.Error("[query],json decode err:", err)
		writeJSON(w, status, errResponse(status, "Query参数有误!"))
		return
	}
	log.Infof("[client] 收到查询请求: %+v", q)

	ctx := r.Context()
	var (
		data interface{}
		err  error
	)
	switch q.Type {
	case "getHeight":
		data, err = h.backend.Height(ctx)
	case "getBlock": // 获取指定高度的区块
		if len(q.Parameters) != 1 {
			err = errBadQuery
			break
		}
		height, perr := strconv.ParseUint(q.Parameters[0], 10, 64)
		if perr != nil {
			err = errBadQuery
			break
		}
		data, err = h.backend.Block(ctx, height)
	case "getInstance": // 获取合约实例
		if len(q.Parameters) != 1 || !common.IsHexAddress(q.Parameters[0]) {
			err = errBadQuery
			break
		}
		data, err = h.backend.Instance(ctx, common.HexToAddress(q.Parameters[0]))
	case "getReceipt": // 获取交易回执
		if len(q.Parameters) != 1 {
			err = errBadQuery
			break
		}
		data, err = h.backend.Receipt(ctx, common.HexToHash(q.Parameters[0]))
	default:
		log.Info("Query参数有误!")
		err = errBadQuery
	}
	if err != nil {
		status := statusOf(err)
		writeJSON(w, status, errResponse(status, err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, goodResponse(data))
}

// 已注册的合约模板及其构造参数
func (h *handler) templates(w http.ResponseWriter, _ *http.Request) {
	type templateInfo struct {
		Name    string               `json:"name"`
		Params  []contract.ParamSpec `json:"params"`
		Methods []string             `json:"methods"`
	}
	var all []templateInfo
	for _, t := range contract.Templates() {
		all = append(all, templateInfo{Name: t.Name, Params: t.Params, Methods: t.MethodNames()})
	}
	writeJSON(w, http.StatusOK, goodResponse(all))
}

var errBadQuery = errors.New("Query参数有误!")

func statusOf(err error) int {
	switch {
	case errors.Is(err, contract.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, chain.ErrUnknownContract):
		return http.StatusNotFound
	case errors.Is(err, errBadQuery),
		errors.Is(err, chain.ErrBadSignature),
		errors.Is(err, chain.ErrBadNonce),
		errors.Is(err, chain.ErrUnknownTxType),
		errors.Is(err, contract.ErrInvalidParams),
		errors.Is(err, contract.ErrInvalidArgs),
		errors.Is(err, contract.ErrUnknownTemplate),
		errors.Is(err, contract.ErrMethodNotFound):
		return http.StatusBadRequest
	case errors.Is(err, chain.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 正常响应，返回数据
func goodResponse(data interface{}) meta.HttpResponse {
	return meta.HttpResponse{
		Data: data,
		Code: 20000,
	}
}

// 出现异常，返回异常信息
func errResponse(status int, errMsg string) meta.HttpResponse {
	return meta.HttpResponse{
		Error: errMsg,
		Data:  "",
		Code:  status * 100,
	}
}

func writeJSON(w http.ResponseWriter, status int, res meta.HttpResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error("[writeJSON] encode err:", err)
	}
}
