package application

// BuildRegistry assembles the full tool registry. Registration order is
// the order tools appear in tool discovery.
func BuildRegistry(enricher *Enricher) (*Registry, error) {
	registry := NewRegistry()

	if err := RegisterWorkItemTools(registry); err != nil {
		return nil, err
	}
	if err := RegisterProjectTools(registry); err != nil {
		return nil, err
	}
	if err := RegisterRepositoryTools(registry); err != nil {
		return nil, err
	}
	if err := RegisterSearchTools(registry, enricher); err != nil {
		return nil, err
	}

	return registry, nil
}
