//Package refdata loads the declarative reference tables the managers
//and validators consume: dihedral and chiral definitions per residue
//type, rotamer descriptions, and tabulated probability grids. Tables
//are JSON, optionally zstd-compressed (.zst), and are parsed into
//plain Go values; callers feed them to the managers. The protein
//backbone definitions are built in so the core works without any
//external files.
package refdata

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/kaldera-bio/refine"
	"github.com/kaldera-bio/refine/interp"
	"github.com/klauspost/compress/zstd"
)

//DihedralEntry describes one named dihedral or chiral center of a
//residue type. Externals marks atoms that live in a bonded neighbor
//residue; Expected is the reference improper angle for chiral
//entries.
type DihedralEntry struct {
	Atoms     []string `json:"atoms"`
	Externals []bool   `json:"externals,omitempty"`
	Expected  float64  `json:"expected,omitempty"`
}

//DihedralTable maps residue type to named dihedral entries.
type DihedralTable map[string]map[string]DihedralEntry

//RotamerEntry describes the sidechain of one residue type: how many
//chi dihedrals it has and whether the last one is two-fold symmetric.
type RotamerEntry struct {
	NChi int  `json:"nchi"`
	Symm bool `json:"symm"`
}

//RotamerTable maps residue type to its rotamer description.
type RotamerTable map[string]RotamerEntry

//GridDef is a serialized interpolation grid: per-axis point counts
//and bounds plus the row-major data.
type GridDef struct {
	Lengths []int     `json:"lengths"`
	Mins    []float64 `json:"mins"`
	Maxs    []float64 `json:"maxs"`
	Data    []float64 `json:"data"`
}

//GridTable maps grid name to its definition.
type GridTable map[string]GridDef

//Interpolator builds the interpolator for a serialized grid.
func (G *GridDef) Interpolator() (*interp.RegularGridInterpolator, error) {
	return interp.New(G.Lengths, G.Mins, G.Maxs, G.Data)
}

type zstdReadCloser struct {
	*zstd.Decoder
	under io.Closer
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.under.Close()
}

type zstdWriteCloser struct {
	*zstd.Encoder
	under io.Closer
}

func (z *zstdWriteCloser) Close() error {
	if err := z.Encoder.Close(); err != nil {
		z.under.Close()
		return err
	}
	return z.under.Close()
}

//Open opens a reference-data file for reading, decompressing
//transparently if the name ends in .zst.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	r, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdReadCloser{Decoder: r, under: f}, nil
}

//Create opens a reference-data file for writing, compressing
//transparently if the name ends in .zst.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	w, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdWriteCloser{Encoder: w, under: f}, nil
}

func load(path string, v interface{}) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return json.NewDecoder(r).Decode(v)
}

//LoadDihedrals reads a dihedral table from r.
func LoadDihedrals(r io.Reader) (DihedralTable, error) {
	var t DihedralTable
	err := json.NewDecoder(r).Decode(&t)
	return t, err
}

//LoadDihedralsFile reads a dihedral table from a file, decompressing
//.zst names transparently.
func LoadDihedralsFile(path string) (DihedralTable, error) {
	var t DihedralTable
	err := load(path, &t)
	return t, err
}

//LoadRotamers reads a rotamer table from r.
func LoadRotamers(r io.Reader) (RotamerTable, error) {
	var t RotamerTable
	err := json.NewDecoder(r).Decode(&t)
	return t, err
}

//LoadRotamersFile reads a rotamer table from a file.
func LoadRotamersFile(path string) (RotamerTable, error) {
	var t RotamerTable
	err := load(path, &t)
	return t, err
}

//LoadGrids reads a grid table from r.
func LoadGrids(r io.Reader) (GridTable, error) {
	var t GridTable
	err := json.NewDecoder(r).Decode(&t)
	return t, err
}

//LoadGridsFile reads a grid table from a file.
func LoadGridsFile(path string) (GridTable, error) {
	var t GridTable
	err := load(path, &t)
	return t, err
}

//WriteTable serializes any of the table types to w as JSON.
func WriteTable(w io.Writer, table interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	return enc.Encode(table)
}

//RegisterDihedrals feeds every entry of a dihedral table into a
//manager. Entries for (type, name) pairs the manager already knows
//are an error, matching AddDef.
func RegisterDihedrals[D refine.Descriptor](m *refine.DihedralMgr[D], table DihedralTable) error {
	for rname, defs := range table {
		for dname, e := range defs {
			def := refine.DihedralDef{AtomNames: e.Atoms, External: e.Externals, Expected: e.Expected}
			if err := m.AddDef(rname, dname, def); err != nil {
				return err
			}
		}
	}
	return nil
}

//StandardAminoAcids lists the 20 standard residue names.
var StandardAminoAcids = []string{
	"ALA", "ARG", "ASN", "ASP", "CYS", "GLN", "GLU", "GLY", "HIS", "ILE",
	"LEU", "LYS", "MET", "PHE", "PRO", "SER", "THR", "TRP", "TYR", "VAL",
}

//BackboneTable returns the built-in phi/psi/omega definitions for the
//standard amino acids. Phi borrows the previous residue's C, psi the
//next residue's N, and omega the previous residue's CA and C.
func BackboneTable() DihedralTable {
	t := make(DihedralTable, len(StandardAminoAcids))
	for _, rname := range StandardAminoAcids {
		t[rname] = map[string]DihedralEntry{
			"phi": {
				Atoms:     []string{"C", "N", "CA", "C"},
				Externals: []bool{true, false, false, false},
			},
			"psi": {
				Atoms:     []string{"N", "CA", "C", "N"},
				Externals: []bool{false, false, false, true},
			},
			"omega": {
				Atoms:     []string{"CA", "C", "N", "CA"},
				Externals: []bool{true, true, false, false},
			},
		}
	}
	return t
}

//AddBackboneDefs registers the built-in backbone definitions with a
//proper-dihedral manager.
func AddBackboneDefs(m *refine.DihedralMgr[*refine.ProperDihedral]) error {
	return RegisterDihedrals(m, BackboneTable())
}
