package ddl

import (
	"strconv"
	"strings"

	"github.com/isabella232/cloud-spanner-emulator/internal/status"
)

// ParseDDLStatement parses a single DDL statement. A trailing semicolon is
// tolerated; an empty statement is the caller's error to report.
func ParseDDLStatement(input string) (Statement, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(input), ";")
	toks, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errUnexpected("end of statement")
	}
	return stmt, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) atEOF() bool { return p.peek().kind == tokenEOF }

func (p *parser) acceptKeyword(kw string) bool {
	if p.peek().isKeyword(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) error {
	if !p.acceptKeyword(kw) {
		return p.errUnexpected(kw)
	}
	return nil
}

func (p *parser) acceptPunct(s string) bool {
	t := p.peek()
	if t.kind == tokenPunct && t.text == s {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectPunct(s string) error {
	if !p.acceptPunct(s) {
		return p.errUnexpected(s)
	}
	return nil
}

func (p *parser) ident() (string, error) {
	t := p.peek()
	if t.kind != tokenIdent {
		return "", p.errUnexpected("identifier")
	}
	p.pos++
	return t.text, nil
}

func (p *parser) errUnexpected(expected string) error {
	t := p.peek()
	got := t.text
	if t.kind == tokenEOF {
		got = "end of input"
	}
	return status.Errorf(status.InvalidArgument,
		"syntax error in DDL: expected %s, got %q at offset %d", expected, got, t.pos)
}

func (p *parser) parseStatement() (Statement, error) {
	switch {
	case p.acceptKeyword("CREATE"):
		if p.acceptKeyword("TABLE") {
			return p.parseCreateTable()
		}
		return p.parseCreateIndex()
	case p.acceptKeyword("ALTER"):
		if err := p.expectKeyword("TABLE"); err != nil {
			return nil, err
		}
		return p.parseAlterTable()
	case p.acceptKeyword("DROP"):
		if p.acceptKeyword("TABLE") {
			name, err := p.ident()
			if err != nil {
				return nil, err
			}
			return &DropTable{Name: name}, nil
		}
		if p.acceptKeyword("INDEX") {
			name, err := p.ident()
			if err != nil {
				return nil, err
			}
			return &DropIndex{Name: name}, nil
		}
		return nil, p.errUnexpected("TABLE or INDEX")
	default:
		return nil, p.errUnexpected("CREATE, ALTER or DROP")
	}
}

func (p *parser) parseCreateTable() (*CreateTable, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	stmt := &CreateTable{Name: name}

	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	for !p.acceptPunct(")") {
		if p.peek().isKeyword("CONSTRAINT") || p.peek().isKeyword("FOREIGN") {
			fk, err := p.parseForeignKey()
			if err != nil {
				return nil, err
			}
			stmt.Constraints = append(stmt.Constraints, fk)
		} else {
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		if p.acceptPunct(",") {
			continue
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		break
	}

	if err := p.expectKeyword("PRIMARY"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("KEY"); err != nil {
		return nil, err
	}
	keys, err := p.parseKeyParts()
	if err != nil {
		return nil, err
	}
	stmt.Constraints = append(stmt.Constraints, &PrimaryKey{Keys: keys})

	if p.acceptPunct(",") {
		interleave, err := p.parseInterleave(true)
		if err != nil {
			return nil, err
		}
		stmt.Constraints = append(stmt.Constraints, interleave)
	}
	return stmt, nil
}

func (p *parser) parseCreateIndex() (*CreateIndex, error) {
	stmt := &CreateIndex{}
	for {
		if p.acceptKeyword("UNIQUE") {
			stmt.Unique = true
			continue
		}
		if p.acceptKeyword("NULL_FILTERED") {
			stmt.NullFiltered = true
			continue
		}
		break
	}
	if err := p.expectKeyword("INDEX"); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	stmt.Name = name
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	if stmt.Table, err = p.ident(); err != nil {
		return nil, err
	}
	if stmt.Keys, err = p.parseKeyParts(); err != nil {
		return nil, err
	}
	if p.acceptKeyword("STORING") {
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		for !p.acceptPunct(")") {
			col, err := p.ident()
			if err != nil {
				return nil, err
			}
			stmt.Storing = append(stmt.Storing, col)
			if p.acceptPunct(",") {
				continue
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			break
		}
	}
	if p.acceptPunct(",") {
		interleave, err := p.parseInterleave(false)
		if err != nil {
			return nil, err
		}
		stmt.Interleave = interleave
	}
	return stmt, nil
}

func (p *parser) parseAlterTable() (*AlterTable, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	stmt := &AlterTable{Name: name}

	switch {
	case p.acceptKeyword("ADD"):
		if p.acceptKeyword("COLUMN") {
			def, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			stmt.Column = &AlterColumnClause{Op: AddColumn, Name: def.Name, Def: def}
			return stmt, nil
		}
		fk, err := p.parseForeignKey()
		if err != nil {
			return nil, err
		}
		stmt.Constraint = &AlterConstraintClause{
			Op: AddConstraint, Name: fk.ConstraintName, ForeignKey: fk,
		}
		return stmt, nil

	case p.acceptKeyword("ALTER"):
		if err := p.expectKeyword("COLUMN"); err != nil {
			return nil, err
		}
		def, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Column = &AlterColumnClause{Op: AlterColumn, Name: def.Name, Def: def}
		return stmt, nil

	case p.acceptKeyword("DROP"):
		if p.acceptKeyword("COLUMN") {
			col, err := p.ident()
			if err != nil {
				return nil, err
			}
			stmt.Column = &AlterColumnClause{Op: DropColumn, Name: col}
			return stmt, nil
		}
		if err := p.expectKeyword("CONSTRAINT"); err != nil {
			return nil, err
		}
		cname, err := p.ident()
		if err != nil {
			return nil, err
		}
		stmt.Constraint = &AlterConstraintClause{Op: DropConstraintForm, Name: cname}
		return stmt, nil

	case p.acceptKeyword("SET"):
		action, err := p.parseOnDelete()
		if err != nil {
			return nil, err
		}
		stmt.Constraint = &AlterConstraintClause{
			Op:         AlterConstraintForm,
			Interleave: &Interleave{OnDelete: action},
		}
		return stmt, nil
	}
	return nil, p.errUnexpected("ADD, ALTER, DROP or SET")
}

func (p *parser) parseColumnDef() (*ColumnDef, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	def := &ColumnDef{Name: name}
	if def.Type, def.Length, err = p.parseType(); err != nil {
		return nil, err
	}
	if p.acceptKeyword("NOT") {
		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		def.NotNull = true
	}
	if p.acceptKeyword("OPTIONS") {
		if def.Options, err = p.parseOptions(); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func (p *parser) parseType() (*TypeNode, *int64, error) {
	t := p.peek()
	if t.kind != tokenIdent {
		return nil, nil, p.errUnexpected("type name")
	}
	p.pos++
	switch t.upper() {
	case "BOOL", "INT64", "FLOAT64", "DATE", "TIMESTAMP":
		return &TypeNode{Name: t.upper()}, nil, nil
	case "STRING", "BYTES":
		if err := p.expectPunct("("); err != nil {
			return nil, nil, err
		}
		length, err := p.parseLength()
		if err != nil {
			return nil, nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, nil, err
		}
		return &TypeNode{Name: t.upper()}, &length, nil
	case "ARRAY":
		if err := p.expectPunct("<"); err != nil {
			return nil, nil, err
		}
		elem, length, err := p.parseType()
		if err != nil {
			return nil, nil, err
		}
		if err := p.expectPunct(">"); err != nil {
			return nil, nil, err
		}
		return &TypeNode{Name: "ARRAY", Elem: elem}, length, nil
	default:
		return nil, nil, status.Errorf(status.InvalidArgument,
			"unknown column type %s", t.text)
	}
}

func (p *parser) parseLength() (int64, error) {
	if p.acceptKeyword("MAX") {
		return MaxLength, nil
	}
	t := p.peek()
	if t.kind != tokenNumber {
		return 0, p.errUnexpected("length or MAX")
	}
	p.pos++
	v, err := strconv.ParseInt(t.text, 10, 64)
	if err != nil {
		return 0, status.Errorf(status.InvalidArgument, "invalid length %q", t.text)
	}
	return v, nil
}

func (p *parser) parseOptions() (*Options, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	opts := &Options{}
	for {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		if name != CommitTimestampOptionName {
			return nil, status.InternalError("invalid column option: %s", name)
		}
		if err := p.expectPunct("="); err != nil {
			return nil, err
		}
		switch {
		case p.acceptKeyword("TRUE"):
			v := true
			opts.AllowCommitTimestamp = &v
		case p.acceptKeyword("FALSE"):
			v := false
			opts.AllowCommitTimestamp = &v
		case p.acceptKeyword("NULL"):
			opts.AllowCommitTimestamp = nil
			opts.NullValue = true
		default:
			return nil, status.InternalError(
				"option %s can only take a bool or null value", CommitTimestampOptionName)
		}
		if p.acceptPunct(",") {
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return opts, nil
}

func (p *parser) parseForeignKey() (*ForeignKey, error) {
	fk := &ForeignKey{}
	if p.acceptKeyword("CONSTRAINT") {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		fk.ConstraintName = name
	}
	if err := p.expectKeyword("FOREIGN"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("KEY"); err != nil {
		return nil, err
	}
	var err error
	if fk.Columns, err = p.identList(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("REFERENCES"); err != nil {
		return nil, err
	}
	if fk.ReferencedTable, err = p.ident(); err != nil {
		return nil, err
	}
	if fk.ReferencedColumns, err = p.identList(); err != nil {
		return nil, err
	}
	return fk, nil
}

// identList parses a parenthesized, comma-separated identifier list.
func (p *parser) identList() ([]string, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var names []string
	for !p.acceptPunct(")") {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if p.acceptPunct(",") {
			continue
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		break
	}
	return names, nil
}

func (p *parser) parseKeyParts() ([]KeyPart, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var keys []KeyPart
	for !p.acceptPunct(")") {
		col, err := p.ident()
		if err != nil {
			return nil, err
		}
		part := KeyPart{Column: col}
		if p.acceptKeyword("DESC") {
			part.Descending = true
		} else {
			p.acceptKeyword("ASC")
		}
		keys = append(keys, part)
		if p.acceptPunct(",") {
			continue
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		break
	}
	return keys, nil
}

// parseInterleave parses INTERLEAVE IN [PARENT] name [ON DELETE ...]. CREATE
// TABLE requires the PARENT keyword; CREATE INDEX omits it.
func (p *parser) parseInterleave(requireParent bool) (*Interleave, error) {
	if err := p.expectKeyword("INTERLEAVE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("IN"); err != nil {
		return nil, err
	}
	if requireParent {
		if err := p.expectKeyword("PARENT"); err != nil {
			return nil, err
		}
	} else {
		p.acceptKeyword("PARENT")
	}
	parent, err := p.ident()
	if err != nil {
		return nil, err
	}
	interleave := &Interleave{Parent: parent, OnDelete: NoAction}
	if p.peek().isKeyword("ON") {
		if interleave.OnDelete, err = p.parseOnDelete(); err != nil {
			return nil, err
		}
	}
	return interleave, nil
}

func (p *parser) parseOnDelete() (OnDeleteAction, error) {
	if err := p.expectKeyword("ON"); err != nil {
		return NoAction, err
	}
	if err := p.expectKeyword("DELETE"); err != nil {
		return NoAction, err
	}
	if p.acceptKeyword("CASCADE") {
		return Cascade, nil
	}
	if p.acceptKeyword("NO") {
		if err := p.expectKeyword("ACTION"); err != nil {
			return NoAction, err
		}
		return NoAction, nil
	}
	return NoAction, p.errUnexpected("CASCADE or NO ACTION")
}
