package authz

import "fmt"

// RoleSeed is a built-in role definition.
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds returns the default role matrix for the admin console.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "deal_ops",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/deals", Action: "*"},
				{Object: "/admin/deals/:id", Action: "*"},
				{Object: "/admin/deals/:id/stage", Action: "*"},
				{Object: "/admin/deals/:id/messages", Action: "*"},
			},
			Immutable: true,
		},
		{
			Role:     "partner_ops",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/partners", Action: "GET"},
				{Object: "/admin/partners/:id", Action: "*"},
				{Object: "/admin/partners/:id/status", Action: "*"},
				{Object: "/admin/partners/:id/parent", Action: "*"},
				{Object: "/admin/hierarchy/rebuild", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "finance",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/payments", Action: "GET"},
				{Object: "/admin/payments/preview", Action: "POST"},
				{Object: "/admin/payments/:id", Action: "GET"},
				{Object: "/admin/payments/:id/submit", Action: "POST"},
				{Object: "/admin/payments/:id/approve", Action: "POST"},
				{Object: "/admin/payments/:id/query", Action: "POST"},
				{Object: "/admin/payments/:id/resolve", Action: "POST"},
				{Object: "/admin/payments/:id/confirm", Action: "POST"},
				{Object: "/admin/payments/:id/fail", Action: "POST"},
				{Object: "/admin/deals/:id/commission", Action: "*"},
				{Object: "/admin/deals/:id/payment-status", Action: "GET"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles seeds the role matrix idempotently at startup.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
