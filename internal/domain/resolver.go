package domain

// ResolverConfig carries the backend endpoints the resolver hands out.
type ResolverConfig struct {
	PrimaryBaseURL string
	LegacyBaseURL  string
}

// TargetResolver produces the ordered candidate target list for a request.
// It is pure: credentials come from the injected provider, never from the
// environment.
type TargetResolver struct {
	creds  CredentialProvider
	config ResolverConfig
}

// NewTargetResolver creates a new target resolver (DI constructor).
func NewTargetResolver(creds CredentialProvider, config ResolverConfig) *TargetResolver {
	return &TargetResolver{
		creds:  creds,
		config: config,
	}
}

// ResolveTargets returns candidate backend targets in cascade order.
// The primary gateway comes first whenever its credential is present; the
// legacy gateway is appended only when its credential is present and the
// logical model is legacy-eligible. An empty list means no target has a
// usable credential — a configuration error, not an exhausted cascade.
func (r *TargetResolver) ResolveTargets(model string) []BackendTarget {
	targets := make([]BackendTarget, 0, 2)

	if key := r.creds.Secret(SecretPrimary); key != "" {
		targets = append(targets, BackendTarget{
			Name:     TargetPrimary,
			BaseURL:  r.config.PrimaryBaseURL,
			APIKey:   key,
			modelMap: primaryModelMap,
		})
	}

	if key := r.creds.Secret(SecretLegacy); key != "" && LegacyEligible(model) {
		targets = append(targets, BackendTarget{
			Name:     TargetLegacy,
			BaseURL:  r.config.LegacyBaseURL,
			APIKey:   key,
			modelMap: legacyModelMap,
		})
	}

	return targets
}
