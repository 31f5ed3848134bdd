package hostdb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/elamaunt/gdshrapt-go/internal/providers"
)

// LoadSQLite reads the descriptor from its database form. Schema:
//
//	meta(key TEXT, value TEXT)                         -- key 'version'
//	classes(name, base, is_builtin_value, is_singleton, is_abstract)
//	methods(id, class_name, name, return_type, is_static, is_vararg, return_role)
//	method_params(method_id, position, name, type, has_default, is_params)
//	properties(class_name, name, type)
//	signals(id, class_name, name)
//	signal_params(signal_id, position, type)
//	constants(class_name, name, type)
//	enums(class_name, name, value_name)
//	global_functions(method_id)                        -- methods with class_name ''
//
// The same rows describe global functions: a methods row with an empty
// class_name listed in global_functions.
func LoadSQLite(path string) (*Provider, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("hostdb: opening descriptor db: %w", err)
	}
	defer db.Close()
	return loadFromDB(db)
}

func loadFromDB(db *sql.DB) (*Provider, error) {
	p := New()

	if row := db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`); row != nil {
		_ = row.Scan(&p.version) // version is optional
	}

	rows, err := db.Query(`SELECT name, base, is_builtin_value, is_singleton, is_abstract FROM classes`)
	if err != nil {
		return nil, fmt.Errorf("hostdb: querying classes: %w", err)
	}
	for rows.Next() {
		td := &TypeData{
			Methods:    map[string][]MethodData{},
			Properties: map[string]string{},
			Signals:    map[string][]string{},
			Constants:  map[string]string{},
			Enums:      map[string][]string{},
		}
		if err := rows.Scan(&td.Name, &td.Base, &td.IsBuiltinValue, &td.IsSingleton, &td.IsAbstract); err != nil {
			rows.Close()
			return nil, fmt.Errorf("hostdb: scanning class: %w", err)
		}
		p.AddType(td)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hostdb: reading classes: %w", err)
	}

	methods, err := loadMethods(db)
	if err != nil {
		return nil, err
	}
	for _, m := range methods {
		if m.className == "" {
			continue
		}
		if td, ok := p.types[m.className]; ok {
			td.Methods[m.data.Name] = append(td.Methods[m.data.Name], m.data)
		}
	}

	if err := loadSimpleMembers(db, p); err != nil {
		return nil, err
	}

	globals := map[string][]MethodData{}
	grows, err := db.Query(`SELECT method_id FROM global_functions`)
	if err != nil {
		return nil, fmt.Errorf("hostdb: querying global functions: %w", err)
	}
	for grows.Next() {
		var id int64
		if err := grows.Scan(&id); err != nil {
			grows.Close()
			return nil, fmt.Errorf("hostdb: scanning global function: %w", err)
		}
		if m, ok := methods[id]; ok {
			globals[m.data.Name] = append(globals[m.data.Name], m.data)
		}
	}
	grows.Close()
	for name, overloads := range globals {
		p.AddGlobalFunction(name, overloads)
	}

	return p, nil
}

type dbMethod struct {
	className string
	data      MethodData
}

func loadMethods(db *sql.DB) (map[int64]dbMethod, error) {
	out := map[int64]dbMethod{}
	rows, err := db.Query(`SELECT id, class_name, name, return_type, is_static, is_vararg, return_role FROM methods`)
	if err != nil {
		return nil, fmt.Errorf("hostdb: querying methods: %w", err)
	}
	for rows.Next() {
		var id int64
		var m dbMethod
		var role string
		if err := rows.Scan(&id, &m.className, &m.data.Name, &m.data.ReturnType, &m.data.IsStatic, &m.data.IsVararg, &role); err != nil {
			rows.Close()
			return nil, fmt.Errorf("hostdb: scanning method: %w", err)
		}
		m.data.ReturnType = RewriteGenericNotation(m.data.ReturnType)
		m.data.ReturnRole = parseRole(role)
		out[id] = m
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hostdb: reading methods: %w", err)
	}

	prows, err := db.Query(`SELECT method_id, name, type, has_default, is_params FROM method_params ORDER BY method_id, position`)
	if err != nil {
		return nil, fmt.Errorf("hostdb: querying method params: %w", err)
	}
	for prows.Next() {
		var id int64
		var pi providers.ParameterInfo
		if err := prows.Scan(&id, &pi.Name, &pi.TypeName, &pi.HasDefault, &pi.IsParams); err != nil {
			prows.Close()
			return nil, fmt.Errorf("hostdb: scanning method param: %w", err)
		}
		pi.TypeName = RewriteGenericNotation(pi.TypeName)
		if m, ok := out[id]; ok {
			m.data.Params = append(m.data.Params, pi)
			out[id] = m
		}
	}
	prows.Close()
	return out, prows.Err()
}

func loadSimpleMembers(db *sql.DB, p *Provider) error {
	rows, err := db.Query(`SELECT class_name, name, type FROM properties`)
	if err != nil {
		return fmt.Errorf("hostdb: querying properties: %w", err)
	}
	for rows.Next() {
		var class, name, typ string
		if err := rows.Scan(&class, &name, &typ); err != nil {
			rows.Close()
			return fmt.Errorf("hostdb: scanning property: %w", err)
		}
		if td, ok := p.types[class]; ok {
			td.Properties[name] = RewriteGenericNotation(typ)
		}
	}
	rows.Close()

	rows, err = db.Query(`SELECT class_name, name, type FROM constants`)
	if err != nil {
		return fmt.Errorf("hostdb: querying constants: %w", err)
	}
	for rows.Next() {
		var class, name, typ string
		if err := rows.Scan(&class, &name, &typ); err != nil {
			rows.Close()
			return fmt.Errorf("hostdb: scanning constant: %w", err)
		}
		if td, ok := p.types[class]; ok {
			td.Constants[name] = typ
		}
	}
	rows.Close()

	srows, err := db.Query(`SELECT s.class_name, s.name, sp.type FROM signals s LEFT JOIN signal_params sp ON sp.signal_id = s.id ORDER BY s.id, sp.position`)
	if err != nil {
		return fmt.Errorf("hostdb: querying signals: %w", err)
	}
	for srows.Next() {
		var class, name string
		var typ sql.NullString
		if err := srows.Scan(&class, &name, &typ); err != nil {
			srows.Close()
			return fmt.Errorf("hostdb: scanning signal: %w", err)
		}
		td, ok := p.types[class]
		if !ok {
			continue
		}
		if _, seen := td.Signals[name]; !seen {
			td.Signals[name] = nil
		}
		if typ.Valid {
			td.Signals[name] = append(td.Signals[name], typ.String)
		}
	}
	srows.Close()

	erows, err := db.Query(`SELECT class_name, name, value_name FROM enums`)
	if err != nil {
		return fmt.Errorf("hostdb: querying enums: %w", err)
	}
	for erows.Next() {
		var class, name, value string
		if err := erows.Scan(&class, &name, &value); err != nil {
			erows.Close()
			return fmt.Errorf("hostdb: scanning enum: %w", err)
		}
		if td, ok := p.types[class]; ok {
			td.Enums[name] = append(td.Enums[name], value)
		}
	}
	erows.Close()
	return erows.Err()
}
