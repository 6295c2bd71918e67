package deploy

import (
	"errors"
	"fmt"
)

var ErrDeploymentFailed = errors.New("deployment failed")

// DeploymentFailedError 部署失败，Err 为具体原因
type DeploymentFailedError struct {
	Template string
	Err      error
}

func (e *DeploymentFailedError) Error() string {
	return fmt.Sprintf("deploy %s: %v", e.Template, e.Err)
}

func (e *DeploymentFailedError) Unwrap() error {
	return e.Err
}

func (e *DeploymentFailedError) Is(target error) bool {
	return target == ErrDeploymentFailed
}

func failed(template string, err error) error {
	deploymentsTotal.WithLabelValues(template, "failed").Inc()
	return &DeploymentFailedError{Template: template, Err: err}
}
