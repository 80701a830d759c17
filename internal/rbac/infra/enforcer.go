package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer loads the model only. Policy rules live in Postgres and are
// pushed into the enforcer by the rbac service on LoadPolicy.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
