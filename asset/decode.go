package asset

import (
	"fmt"
	"strconv"

	"github.com/wippyai/blueprint-hook/asset/internal/binary"
	"github.com/wippyai/blueprint-hook/errors"
	"github.com/wippyai/blueprint-hook/mappings"
)

// Magic is the container signature.
const Magic uint32 = 0x9E2A83C1

// Section IDs in the order they must appear.
const (
	SectionNames   byte = 0x01
	SectionImports byte = 0x02
	SectionExports byte = 0x03
	SectionSummary byte = 0x04
)

const (
	maxExprDepth     = 64
	maxPropertyDepth = 8
)

// DecodeOptions configures Decode.
type DecodeOptions struct {
	// Mappings supply struct sizes of unversioned packages.
	Mappings *mappings.Mappings
	// Version, when set, must match the version recorded in the container.
	Version EngineVersion
}

type pendingRef struct {
	idx     PackageIndex
	section string
	pos     int
}

type decoder struct {
	asset   *Asset
	opts    DecodeOptions
	refs    []pendingRef
	unsized []*Property
}

// Decode parses a container into an Asset.
func Decode(data []byte, opts DecodeOptions) (*Asset, error) {
	r := binary.FromBytes(data)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, r.WrapError("header", err), "read magic")
	}
	if magic != Magic {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"header"}, fmt.Sprintf("invalid magic %#x", magic))
	}
	version, err := r.ReadU32LE()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, r.WrapError("header", err), "read version")
	}
	if opts.Version != VersionUnknown && EngineVersion(version) != opts.Version {
		return nil, errors.Unsupported(errors.PhaseDecode,
			fmt.Sprintf("asset was saved with %s, expected %s", EngineVersion(version), opts.Version))
	}
	flags, err := r.ReadU32LE()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, r.WrapError("header", err), "read flags")
	}

	a := New(EngineVersion(version))
	a.Flags = PackageFlags(flags)
	d := &decoder{asset: a, opts: opts}

	var last byte
	for !r.EOF() {
		id, err := r.ReadByte()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, r.WrapError("section header", err), "read section id")
		}
		if id <= last {
			return nil, errors.InvalidData(errors.PhaseDecode, []string{"sections"}, fmt.Sprintf("section %d appears out of order", id))
		}
		last = id

		size, err := r.ReadU32()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, r.WrapError("section size", err), "read section size")
		}
		payload, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, r.WrapError("section data", err), "read section data")
		}

		sr := binary.FromBytes(payload)
		var section string
		switch id {
		case SectionNames:
			section = "names"
			err = d.names(sr)
		case SectionImports:
			section = "imports"
			err = d.imports(sr)
		case SectionExports:
			section = "exports"
			err = d.exports(sr)
		case SectionSummary:
			section = "summary"
			err = d.summary(sr)
		default:
			return nil, errors.Unsupported(errors.PhaseDecode, fmt.Sprintf("unknown section %d", id))
		}
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, sr.WrapError(section, err), section+" section")
		}
		if !sr.EOF() {
			return nil, errors.InvalidData(errors.PhaseDecode, []string{section}, "trailing bytes in section")
		}
	}

	if err := d.checkRefs(); err != nil {
		return nil, err
	}
	if err := d.resolveStructSizes(); err != nil {
		return nil, err
	}
	return a, nil
}

func (d *decoder) names(r *binary.Reader) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		s, err := r.ReadName()
		if err != nil {
			return err
		}
		if _, dup := d.asset.nameLookup[s]; dup {
			return fmt.Errorf("duplicate name %q", s)
		}
		d.asset.names = append(d.asset.names, s)
		d.asset.nameLookup[s] = len(d.asset.names) - 1
	}
	return nil
}

func (d *decoder) imports(r *binary.Reader) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		imp := &Import{}
		if imp.ClassPackage, err = d.name(r); err != nil {
			return err
		}
		if imp.ClassName, err = d.name(r); err != nil {
			return err
		}
		if imp.OuterIndex, err = d.index(r, "imports"); err != nil {
			return err
		}
		if imp.ObjectName, err = d.name(r); err != nil {
			return err
		}
		if imp.Optional, err = r.ReadBool(); err != nil {
			return err
		}
		d.asset.Imports = append(d.asset.Imports, imp)
	}
	return nil
}

func (d *decoder) exports(r *binary.Reader) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		e, err := d.export(r)
		if err != nil {
			return fmt.Errorf("export %d: %w", i, err)
		}
		d.asset.Exports = append(d.asset.Exports, e)
	}
	return nil
}

func (d *decoder) summary(r *binary.Reader) error {
	n, err := r.ReadU32()
	if err != nil {
		return err
	}
	if int(n) > len(d.asset.names) {
		return fmt.Errorf("names referenced count %d exceeds name table size %d", n, len(d.asset.names))
	}
	d.asset.namesReferencedFromExportDataCount = int(n)
	return nil
}

func (d *decoder) export(r *binary.Reader) (Export, error) {
	kind, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	var base ExportBase
	if err := d.exportBase(r, &base); err != nil {
		return nil, err
	}

	switch ExportKind(kind) {
	case ExportRaw:
		n, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		data, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		return &RawExport{ExportBase: base, Data: data}, nil

	case ExportFunction:
		fn := &FunctionExport{StructExport: StructExport{ExportBase: base}}
		if err := d.structExport(r, &fn.StructExport); err != nil {
			return nil, err
		}
		flags, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		fn.FunctionFlags = flags
		return fn, nil

	case ExportClass:
		c := &ClassExport{StructExport: StructExport{ExportBase: base}}
		if err := d.structExport(r, &c.StructExport); err != nil {
			return nil, err
		}
		if err := d.classExport(r, c); err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown export kind %d", kind)
	}
}

func (d *decoder) exportBase(r *binary.Reader, b *ExportBase) error {
	var err error
	if b.ObjectName, err = d.name(r); err != nil {
		return err
	}
	if b.ObjectFlags, err = r.ReadU32(); err != nil {
		return err
	}
	for _, dst := range []*PackageIndex{&b.ClassIndex, &b.SuperIndex, &b.TemplateIndex, &b.OuterIndex} {
		if *dst, err = d.index(r, "exports"); err != nil {
			return err
		}
	}
	for _, dst := range []*[]PackageIndex{
		&b.SerializationBeforeSerializationDependencies,
		&b.CreateBeforeSerializationDependencies,
		&b.SerializationBeforeCreateDependencies,
		&b.CreateBeforeCreateDependencies,
	} {
		if *dst, err = d.indexList(r); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) structExport(r *binary.Reader, s *StructExport) error {
	var err error
	if s.SuperStruct, err = d.index(r, "exports"); err != nil {
		return err
	}
	if s.Children, err = d.indexList(r); err != nil {
		return err
	}
	n, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		p, err := d.property(r, 0)
		if err != nil {
			return fmt.Errorf("property %d: %w", i, err)
		}
		s.LoadedProperties = append(s.LoadedProperties, p)
	}
	n, err = r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		tok, err := r.ReadByte()
		if err != nil {
			return err
		}
		e, err := d.expr(r, Token(tok), 0)
		if err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
		s.Script = append(s.Script, e)
	}
	return nil
}

func (d *decoder) classExport(r *binary.Reader, c *ClassExport) error {
	n, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		var entry FuncMapEntry
		if entry.Name, err = d.name(r); err != nil {
			return err
		}
		if entry.Index, err = d.index(r, "funcmap"); err != nil {
			return err
		}
		c.FuncMap.Entries = append(c.FuncMap.Entries, entry)
	}
	if c.ClassFlags, err = r.ReadU32(); err != nil {
		return err
	}
	if c.ClassWithin, err = d.index(r, "exports"); err != nil {
		return err
	}
	if c.ClassConfigName, err = d.name(r); err != nil {
		return err
	}
	n, err = r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		var iface SerializedInterface
		if iface.Class, err = r.ReadS32(); err != nil {
			return err
		}
		d.refs = append(d.refs, pendingRef{idx: FromRaw(iface.Class), section: "interfaces", pos: r.Position()})
		if iface.PointerOffset, err = r.ReadS32(); err != nil {
			return err
		}
		if iface.Implemented, err = r.ReadBool(); err != nil {
			return err
		}
		c.Interfaces = append(c.Interfaces, iface)
	}
	if c.ClassGeneratedBy, err = d.index(r, "exports"); err != nil {
		return err
	}
	if c.ClassDefaultObject, err = d.index(r, "exports"); err != nil {
		return err
	}
	return nil
}

func (d *decoder) property(r *binary.Reader, depth int) (*Property, error) {
	if depth > maxPropertyDepth {
		return nil, fmt.Errorf("property nesting exceeds %d", maxPropertyDepth)
	}
	p := &Property{}
	var err error
	if p.Type, err = d.name(r); err != nil {
		return nil, err
	}
	if p.Name, err = d.name(r); err != nil {
		return nil, err
	}
	if p.RepNotifyFunc, err = d.name(r); err != nil {
		return nil, err
	}
	flags, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	p.Flags = PropertyFlags(flags)
	if p.ArrayDim, err = r.ReadS32(); err != nil {
		return nil, err
	}
	if p.ElementSize, err = r.ReadS32(); err != nil {
		return nil, err
	}
	if p.Struct, err = d.index(r, "properties"); err != nil {
		return nil, err
	}
	if p.PropertyClass, err = d.index(r, "properties"); err != nil {
		return nil, err
	}
	hasInner, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if hasInner {
		if p.Inner, err = d.property(r, depth+1); err != nil {
			return nil, err
		}
	}
	if d.asset.Unversioned() && p.IsStruct() && p.ElementSize == 0 {
		d.unsized = append(d.unsized, p)
	}
	return p, nil
}

func (d *decoder) expr(r *binary.Reader, tok Token, depth int) (Expr, error) {
	if depth > maxExprDepth {
		return nil, fmt.Errorf("expression nesting exceeds %d", maxExprDepth)
	}
	var err error
	switch tok {
	case TokenLocalVariable:
		e := &ExprLocalVariable{}
		e.Variable, err = d.fieldPath(r)
		return e, err

	case TokenInstanceVariable:
		e := &ExprInstanceVariable{}
		e.Variable, err = d.fieldPath(r)
		return e, err

	case TokenLet:
		e := &ExprLet{}
		if e.Variable, err = d.fieldPath(r); err != nil {
			return nil, err
		}
		e.Value, err = d.subExpr(r, depth)
		return e, err

	case TokenFinalFunction:
		e := &ExprFinalFunction{}
		if e.StackNode, err = d.index(r, "script"); err != nil {
			return nil, err
		}
		e.Params, err = d.params(r, depth)
		return e, err

	case TokenVirtualFunction:
		e := &ExprVirtualFunction{}
		if e.VirtualFunctionName, err = d.name(r); err != nil {
			return nil, err
		}
		e.Params, err = d.params(r, depth)
		return e, err

	case TokenContext:
		e := &ExprContext{}
		if e.Object, err = d.subExpr(r, depth); err != nil {
			return nil, err
		}
		if e.Offset, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if e.RValuePointer, err = d.fieldPath(r); err != nil {
			return nil, err
		}
		e.Context, err = d.subExpr(r, depth)
		return e, err

	case TokenObjectConst:
		e := &ExprObjectConst{}
		e.Value, err = d.index(r, "script")
		return e, err

	case TokenNameConst:
		e := &ExprNameConst{}
		e.Value, err = d.name(r)
		return e, err

	case TokenIntConst:
		e := &ExprIntConst{}
		e.Value, err = r.ReadS32()
		return e, err

	case TokenStringConst:
		e := &ExprStringConst{}
		e.Value, err = r.ReadName()
		return e, err

	case TokenReturn:
		e := &ExprReturn{}
		e.Value, err = d.subExpr(r, depth)
		return e, err

	case TokenNothing:
		return &ExprNothing{}, nil

	case TokenEndOfScript:
		return &ExprEndOfScript{}, nil

	default:
		return nil, fmt.Errorf("unsupported expression token %#02x", byte(tok))
	}
}

func (d *decoder) subExpr(r *binary.Reader, depth int) (Expr, error) {
	tok, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if Token(tok) == TokenEndFunctionParms {
		return nil, fmt.Errorf("unexpected end of parameters")
	}
	return d.expr(r, Token(tok), depth+1)
}

func (d *decoder) params(r *binary.Reader, depth int) ([]Expr, error) {
	var params []Expr
	for {
		tok, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if Token(tok) == TokenEndFunctionParms {
			return params, nil
		}
		e, err := d.expr(r, Token(tok), depth+1)
		if err != nil {
			return nil, err
		}
		params = append(params, e)
	}
}

func (d *decoder) fieldPath(r *binary.Reader) (FieldPath, error) {
	var fp FieldPath
	n, err := r.ReadU32()
	if err != nil {
		return fp, err
	}
	for i := uint32(0); i < n; i++ {
		name, err := d.name(r)
		if err != nil {
			return fp, err
		}
		fp.Path = append(fp.Path, name)
	}
	fp.ResolvedOwner, err = d.index(r, "script")
	return fp, err
}

func (d *decoder) name(r *binary.Reader) (FName, error) {
	raw, err := r.ReadU32()
	if err != nil {
		return FName{}, err
	}
	if raw == 0 {
		return FName{}, nil
	}
	number, err := r.ReadU32()
	if err != nil {
		return FName{}, err
	}
	n, ok := d.asset.NameAt(int(raw-1), int32(number))
	if !ok {
		return FName{}, fmt.Errorf("name index %d out of range (table size %d)", raw-1, len(d.asset.names))
	}
	return n, nil
}

func (d *decoder) index(r *binary.Reader, section string) (PackageIndex, error) {
	raw, err := r.ReadS32()
	if err != nil {
		return PackageIndex{}, err
	}
	idx := FromRaw(raw)
	if !idx.IsNull() {
		d.refs = append(d.refs, pendingRef{idx: idx, section: section, pos: r.Position()})
	}
	return idx, nil
}

func (d *decoder) indexList(r *binary.Reader) ([]PackageIndex, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	var out []PackageIndex
	for i := uint32(0); i < n; i++ {
		idx, err := d.index(r, "dependencies")
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}

func (d *decoder) checkRefs() error {
	for _, ref := range d.refs {
		var length int
		switch ref.idx.Kind {
		case RefImport:
			length = len(d.asset.Imports)
		case RefExport:
			length = len(d.asset.Exports)
		default:
			continue
		}
		if ref.idx.Index >= length {
			return errors.OutOfBounds(errors.PhaseDecode, []string{ref.section, "@" + strconv.Itoa(ref.pos)}, ref.idx.Index, length)
		}
	}
	return nil
}

func (d *decoder) resolveStructSizes() error {
	if len(d.unsized) == 0 {
		return nil
	}
	if d.opts.Mappings == nil {
		return errors.InvalidInput(errors.PhaseDecode, "unversioned package requires type mappings")
	}
	for _, p := range d.unsized {
		name, err := d.objectName(p.Struct)
		if err != nil {
			return err
		}
		size, err := d.opts.Mappings.StructSize(name)
		if err != nil {
			return errors.Wrap(errors.PhaseDecode, errors.KindNotFound, err,
				fmt.Sprintf("size of struct %s for property %s", name, p.Name))
		}
		p.ElementSize = size
	}
	return nil
}

func (d *decoder) objectName(idx PackageIndex) (string, error) {
	switch idx.Kind {
	case RefImport:
		imp, err := d.asset.Import(idx)
		if err != nil {
			return "", err
		}
		return imp.ObjectName.String(), nil
	case RefExport:
		e, err := d.asset.Export(idx)
		if err != nil {
			return "", err
		}
		return e.Base().ObjectName.String(), nil
	default:
		return "", errors.InvalidData(errors.PhaseDecode, []string{"properties"}, "struct property without struct reference")
	}
}
