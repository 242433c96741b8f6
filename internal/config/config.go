package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/utils"
)

// Config describes one full pipeline run: where the snapshot files live,
// which store to write, and which organisational unit the data belongs to.
// It is loaded once and passed by value into the pipeline; nothing here is
// mutated after Load returns.
type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	Organisation OrganisationConfig `yaml:"organisation"`
	Inputs       InputConfig        `yaml:"inputs"`
	Portal       PortalConfig       `yaml:"portal"`
	Roster       RosterConfig       `yaml:"roster"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite or a connection string for postgres.
	DSN string `yaml:"dsn"`
}

type OrganisationConfig struct {
	// UUID of the organisational unit whose records are kept; outputs and
	// awards managed by (or affiliated with) any other unit are skipped.
	UUID string `yaml:"uuid"`
	Name string `yaml:"name"`
}

type InputConfig struct {
	Roster   string `yaml:"roster"`
	Persons  string `yaml:"persons"`
	Outputs  string `yaml:"outputs"`
	Awards   string `yaml:"awards"`
	Projects string `yaml:"projects"`
}

// PortalConfig rewrites internal portal links into their public form.
type PortalConfig struct {
	InternalHost string `yaml:"internal_host"`
	PublicHost   string `yaml:"public_host"`
}

// RosterConfig names the spreadsheet sheet and columns the roster reader
// expects. Overridable so tests (and future roster revisions) can substitute
// alternate layouts.
type RosterConfig struct {
	Sheet            string   `yaml:"sheet"`
	TitleColumn      string   `yaml:"title_column"`
	FirstNameColumn  string   `yaml:"first_name_column"`
	SurnameColumn    string   `yaml:"surname_column"`
	EmailColumn      string   `yaml:"email_column"`
	SecondEmailCol   string   `yaml:"secondary_email_column"`
	PositionColumn   string   `yaml:"position_column"`
	OrgColumn        string   `yaml:"organisation_column"`
	ProfileColumn    string   `yaml:"profile_column"`
	CategoryColumn   string   `yaml:"category_column"`
	ExpertiseColumns []string `yaml:"expertise_columns"`
	BioColumns       []string `yaml:"bio_columns"`
	DateColumns      []string `yaml:"date_columns"`
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "data.db",
		},
		Inputs: InputConfig{
			Roster:   "db/members.xlsx",
			Persons:  "db/persons.json",
			Outputs:  "db/research_outputs.json",
			Awards:   "db/awards.json",
			Projects: "db/projects.json",
		},
		Roster: RosterConfig{
			Sheet:           "DATA- Member Listing",
			TitleColumn:     "Title",
			FirstNameColumn: "First Name",
			SurnameColumn:   "Surname",
			EmailColumn:     "Email Address",
			SecondEmailCol:  "Seconday email",
			PositionColumn:  "Position",
			OrgColumn:       "School/Centre/Organisation",
			ProfileColumn:   "Profile",
			CategoryColumn:  "Category",
			ExpertiseColumns: []string{
				"New Expertise", "New Expertise2", "New Expertise3",
			},
			BioColumns: []string{
				"Category", "Relationship", "HDR Student Type",
				"University/research institution Affiliation",
				"Industry affiliate or partner institute/org",
				"Geographical focus for research",
			},
			DateColumns: []string{
				"Adjunct Commencement Date", "Adjunct Renewal Date", "Expiry Date",
			},
		},
	}
}

// Load reads the YAML config at path, layering it over defaults and then over
// environment overrides for the store connection.
func Load(path string, log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Database.Driver = utils.GetEnv("PUREINGEST_DB_DRIVER", cfg.Database.Driver, log)
	cfg.Database.DSN = utils.GetEnv("PUREINGEST_DB_DSN", cfg.Database.DSN, log)
	cfg.Organisation.UUID = utils.GetEnv("PUREINGEST_ORG_UUID", cfg.Organisation.UUID, log)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.Organisation.UUID == "" {
		return fmt.Errorf("organisation uuid is required")
	}
	return nil
}
