package schema

// DatabaseConfigsTable represents the 'database_configs' table.
//
// Each row describes an external relational source that batch resolution can
// read candidate name pairs from.
type DatabaseConfigsTable struct {
	Table        string
	ID           string
	Name         string
	Host         string
	Port         string
	DatabaseName string
	Username     string
	Password     string
	TableName    string
	ColumnNom    string
	ColumnPrenom string
	CreatedAt    string
}

var DatabaseConfigs = DatabaseConfigsTable{
	Table:        "database_configs",
	ID:           "id",
	Name:         "name",
	Host:         "host",
	Port:         "port",
	DatabaseName: "database_name",
	Username:     "username",
	Password:     "password",
	TableName:    "table_name",
	ColumnNom:    "column_nom",
	ColumnPrenom: "column_prenom",
	CreatedAt:    "created_at",
}

func (t DatabaseConfigsTable) Columns() []string {
	return []string{t.ID, t.Name, t.Host, t.Port, t.DatabaseName, t.Username, t.Password, t.TableName, t.ColumnNom, t.ColumnPrenom, t.CreatedAt}
}
