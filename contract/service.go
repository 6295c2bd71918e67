package contract

import (
	"errors"
	"fmt"

	"github.com/cloudflare/cfssl/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ssbcDeploy/meta"
)

var callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ssbc_contract_calls_total",
	Help: "Contract method executions by template, method and result",
}, []string{"template", "method", "result"})

// Execute 在实例上执行 c.Method
func Execute(c Context, inst meta.Instance) (interface{}, error) {
	// 参数校验
	if c.Method == "" {
		return nil, errors.New("invalid call params")
	}
	t, err := Lookup(inst.Template)
	if err != nil {
		return nil, err
	}
	f, ok := t.Methods[c.Method]
	if !ok {
		log.Infof("找不到目标方法：%s.%s", inst.Template, c.Method)
		callsTotal.WithLabelValues(inst.Template, c.Method, "not_found").Inc()
		return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, inst.Template, c.Method)
	}
	c.Name = inst.Template
	c.Address = inst.Address

	res, err := f(c, inst)
	switch {
	case errors.Is(err, ErrUnauthorized):
		callsTotal.WithLabelValues(inst.Template, c.Method, "unauthorized").Inc()
		return nil, err
	case err != nil:
		callsTotal.WithLabelValues(inst.Template, c.Method, "error").Inc()
		return nil, err
	}
	callsTotal.WithLabelValues(inst.Template, c.Method, "ok").Inc()
	log.Debugf("执行结果：%v", res)
	return res, nil
}
