package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cloudflare/cfssl/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(b Backend) *mux.Router {
	h := &handler{backend: b}
	r := mux.NewRouter()
	r.HandleFunc("/postTran", h.postTran).Methods(http.MethodPost) // 提交一笔交易
	r.HandleFunc("/query", h.query).Methods(http.MethodPost)       // 提供链上查询服务
	r.HandleFunc("/templates", h.templates).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// ListenRequest 监听用户请求，ctx 结束时优雅关闭
func ListenRequest(ctx context.Context, addr string, b Backend) error {
	server := &http.Server{
		Handler:      NewRouter(b),
		Addr:         addr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Infof("HTTP 服务已启动: %s", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
