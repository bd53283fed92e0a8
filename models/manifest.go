package models

// CatalogExtra describes one extra parameter a catalog accepts.
type CatalogExtra struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired,omitempty"`
}

// CatalogDescriptor advertises one catalog in the manifest.
type CatalogDescriptor struct {
	Type  string         `json:"type"`
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Extra []CatalogExtra `json:"extra,omitempty"`
}

// BehaviorHints tells the router how the addon wants to be installed.
type BehaviorHints struct {
	Configurable          bool `json:"configurable"`
	ConfigurationRequired bool `json:"configurationRequired"`
}

// Manifest is the addon capability document. An unconfigured tenant gets a
// manifest with no resources and no catalogs so the router never routes
// catalog or meta requests to it.
type Manifest struct {
	ID            string              `json:"id"`
	Version       string              `json:"version"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Resources     []string            `json:"resources"`
	Types         []string            `json:"types"`
	IDPrefixes    []string            `json:"idPrefixes,omitempty"`
	Catalogs      []CatalogDescriptor `json:"catalogs"`
	BehaviorHints BehaviorHints       `json:"behaviorHints"`
}
