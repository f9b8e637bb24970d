package config

// WorkspaceConfig holds per-workspace settings for a single named
// workspace. This lets users keep several target workspaces in one
// config file and pick one by alias on the command line.
type WorkspaceConfig struct {
	// Token is the API integration token for this workspace.
	Token string `yaml:"token,omitempty"`

	// WorkspaceID is the remote workspace identifier.
	WorkspaceID string `yaml:"workspaceId,omitempty"`

	// DatabaseID is the database that receives hierarchy roots.
	DatabaseID string `yaml:"databaseId,omitempty"`

	// BaseURL overrides the API endpoint for this workspace.
	// Used for self-hosted deployments.
	BaseURL string `yaml:"baseUrl,omitempty"`

	// IncludeMetadata copies source author and timestamps onto created
	// pages for imports into this workspace.
	IncludeMetadata bool `yaml:"includeMetadata,omitempty"`
}

// File represents the structure of the .pagebridge configuration file.
type File struct {
	// Workspaces maps workspace aliases to their configurations.
	// Keys are user-chosen names (e.g. "personal", "team").
	Workspaces map[string]WorkspaceConfig `yaml:"workspaces,omitempty"`

	// Defaults contains default workspace configuration applied to all
	// workspaces unless overridden in the alias-specific configuration.
	Defaults WorkspaceConfig `yaml:"defaults,omitempty"`
}

// GetWorkspaceConfig returns the configuration for a workspace alias.
// It merges the alias-specific configuration with defaults.
func (cf *File) GetWorkspaceConfig(alias string) WorkspaceConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with alias-specific configuration if present
	if ws, ok := cf.Workspaces[alias]; ok {
		if ws.Token != "" {
			result.Token = ws.Token
		}
		if ws.WorkspaceID != "" {
			result.WorkspaceID = ws.WorkspaceID
		}
		if ws.DatabaseID != "" {
			result.DatabaseID = ws.DatabaseID
		}
		if ws.BaseURL != "" {
			result.BaseURL = ws.BaseURL
		}
		if ws.IncludeMetadata {
			result.IncludeMetadata = true
		}
	}

	return result
}
