package contract

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ssbcDeploy/meta"
)

var (
	ErrUnknownTemplate = errors.New("unknown contract template")
	ErrInvalidParams   = errors.New("invalid constructor params")
	ErrInvalidArgs     = errors.New("invalid call args")
	ErrMethodNotFound  = errors.New("method not found")
)

// 构造参数类型
const (
	KindAddress = "address"
	KindUint    = "uint"
	KindString  = "string"
)

type ParamSpec struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// MethodFunc 合约方法，参数从 Context 中读取
type MethodFunc func(c Context, inst meta.Instance) (interface{}, error)

type Template struct {
	Name    string                `json:"name"`
	Params  []ParamSpec           `json:"params"`
	Methods map[string]MethodFunc `json:"-"`
}

// 方法名列表，已排序
func (t Template) MethodNames() []string {
	names := make([]string, 0, len(t.Methods))
	for name := range t.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var templates = map[string]Template{}

func register(t Template) {
	if _, ok := templates[t.Name]; ok {
		panic("contract: duplicate template " + t.Name)
	}
	templates[t.Name] = t
}

func Lookup(name string) (Template, error) {
	t, ok := templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return t, nil
}

// 所有已注册的模板，按名称排序
func Templates() []Template {
	all := make([]Template, 0, len(templates))
	for _, t := range templates {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// ValidateParams 检查构造参数个数和格式，部署前和上链前各调用一次
func ValidateParams(name string, params []string) error {
	t, err := Lookup(name)
	if err != nil {
		return err
	}
	if len(params) != len(t.Params) {
		return fmt.Errorf("%w: %s expects %d params, got %d", ErrInvalidParams, name, len(t.Params), len(params))
	}
	for i, ps := range t.Params {
		if err := checkKind(ps.Kind, params[i]); err != nil {
			return fmt.Errorf("%w: %s param %q: %v", ErrInvalidParams, name, ps.Name, err)
		}
	}
	return nil
}

func checkKind(kind, value string) error {
	switch kind {
	case KindAddress:
		_, err := parseAddress(value)
		return err
	case KindUint:
		_, err := parseUint(value)
		return err
	case KindString:
		if value == "" {
			return errors.New("empty string")
		}
		return nil
	default:
		return fmt.Errorf("unsupported kind %q", kind)
	}
}

func parseAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%q is not a hex address", value)
	}
	addr := common.HexToAddress(value)
	if addr == (common.Address{}) {
		return common.Address{}, errors.New("zero address")
	}
	return addr, nil
}

func parseUint(value string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%q is not a decimal integer", value)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%q is negative", value)
	}
	return n, nil
}
