package util

import "github.com/cloudflare/cfssl/log"

func DealJsonErr(funcName string, err error) {
	if err != nil {
		log.Errorf("[%s] json marshal or unmarshal failed: %v", funcName, err)
	}
}
