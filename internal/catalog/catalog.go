package catalog

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Catalog holds the static role, learning-path and personalization data.
// Loaded once at startup, read-only afterwards.
type Catalog struct {
	log *logger.Logger

	roles     map[string]types.Role
	roleOrder []string
	paths     map[string]types.LearningPath

	// role id -> module id -> record
	personalizations map[string]map[string]types.RolePersonalization
	reasonings       map[string]map[string]string

	moduleDifficulty map[string]string
}

type rolesDoc struct {
	Roles []types.Role `yaml:"roles"`
}

type pathsDoc struct {
	Paths []types.LearningPath `yaml:"paths"`
}

type personalizationDoc struct {
	Personalizations map[string][]types.RolePersonalization `yaml:"personalizations"`
	Reasonings       map[string]map[string]string           `yaml:"reasonings"`
}

type modulesDoc struct {
	Modules []struct {
		ID         string `yaml:"id"`
		Difficulty string `yaml:"difficulty"`
	} `yaml:"modules"`
}

func Load(baseLog *logger.Logger) (*Catalog, error) {
	c := &Catalog{
		log:              baseLog.With("component", "Catalog"),
		roles:            map[string]types.Role{},
		paths:            map[string]types.LearningPath{},
		personalizations: map[string]map[string]types.RolePersonalization{},
		reasonings:       map[string]map[string]string{},
		moduleDifficulty: map[string]string{},
	}

	var rd rolesDoc
	if err := readYAML("data/roles.yaml", &rd); err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	for _, r := range rd.Roles {
		c.roles[r.ID] = r
		c.roleOrder = append(c.roleOrder, r.ID)
	}

	var pd pathsDoc
	if err := readYAML("data/paths.yaml", &pd); err != nil {
		return nil, fmt.Errorf("load paths: %w", err)
	}
	for _, p := range pd.Paths {
		sort.SliceStable(p.Steps, func(i, j int) bool {
			return p.Steps[i].Priority < p.Steps[j].Priority
		})
		// step 0 is always unlocked
		if len(p.Steps) > 0 {
			p.Steps[0].IsUnlocked = true
		}
		if _, ok := c.roles[p.RoleID]; !ok {
			return nil, fmt.Errorf("path %s references unknown role %s", p.ID, p.RoleID)
		}
		c.paths[p.RoleID] = p
	}

	var psd personalizationDoc
	if err := readYAML("data/personalization.yaml", &psd); err != nil {
		return nil, fmt.Errorf("load personalizations: %w", err)
	}
	for roleID, entries := range psd.Personalizations {
		byModule := map[string]types.RolePersonalization{}
		for _, e := range entries {
			byModule[e.ModuleID] = e
		}
		c.personalizations[roleID] = byModule
	}
	c.reasonings = psd.Reasonings
	if c.reasonings == nil {
		c.reasonings = map[string]map[string]string{}
	}

	var md modulesDoc
	if err := readYAML("data/modules.yaml", &md); err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}
	for _, m := range md.Modules {
		c.moduleDifficulty[m.ID] = m.Difficulty
	}

	c.log.Info("catalog loaded",
		"roles", len(c.roles),
		"paths", len(c.paths),
		"modules", len(c.moduleDifficulty))
	return c, nil
}

func readYAML(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, out)
}

// Roles returns the catalog roles in declaration order.
func (c *Catalog) Roles() []types.Role {
	out := make([]types.Role, 0, len(c.roleOrder))
	for _, id := range c.roleOrder {
		out = append(out, c.roles[id])
	}
	return out
}

func (c *Catalog) Role(id string) (types.Role, bool) {
	r, ok := c.roles[id]
	return r, ok
}

// PathForRole returns the learning path for a role. Steps are already
// sorted by priority ascending.
func (c *Catalog) PathForRole(roleID string) (*types.LearningPath, bool) {
	p, ok := c.paths[roleID]
	if !ok {
		return nil, false
	}
	return &p, true
}

// Personalization looks up the static (role, module) record with an
// explicit not-found result.
func (c *Catalog) Personalization(roleID, moduleID string) (types.RolePersonalization, bool) {
	byModule, ok := c.personalizations[roleID]
	if !ok {
		return types.RolePersonalization{}, false
	}
	p, ok := byModule[moduleID]
	return p, ok
}

// Reasoning returns the recommendation reasoning for a (role, module)
// pair, if one is defined.
func (c *Catalog) Reasoning(roleID, moduleID string) (string, bool) {
	byModule, ok := c.reasonings[roleID]
	if !ok {
		return "", false
	}
	r, ok := byModule[moduleID]
	return r, ok
}

// DifficultyForModule returns the module's difficulty metadata, defaulting
// to beginner for modules without an entry.
func (c *Catalog) DifficultyForModule(moduleID string) string {
	if d, ok := c.moduleDifficulty[moduleID]; ok && d != "" {
		return d
	}
	return "beginner"
}
