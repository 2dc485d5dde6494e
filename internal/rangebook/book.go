package rangebook

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/park285/holdem-trainer/internal/domain"
)

//go:embed ranges/*.rng
var embeddedRanges embed.FS

var ErrUnknownRange = errors.New("unknown range")

// Grid is one named preflop range binned to the 13x13 class matrix. Both
// axes follow domain.RanksDesc: pairs sit on the diagonal, suited classes
// above it, offsuit classes below. A cell weight is the played fraction of
// that class's combos (6 per pair, 4 suited, 12 offsuit).
type Grid struct {
	Name    string        `json:"name"`
	Title   string        `json:"title,omitempty"`
	Classes [13][13]Class `json:"classes"`
	Combos  int           `json:"combos"`
}

type Class struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

func (g *Grid) At(row, col int) Class {
	return g.Classes[row][col]
}

// Lookup finds a class cell by label ("AA", "AKs", "kqo"). Rank order and
// case are forgiven.
func (g *Grid) Lookup(label string) (Class, bool) {
	row, col, ok := classIndex(label)
	if !ok {
		return Class{}, false
	}
	return g.Classes[row][col], true
}

// ParseRange reads one range chart: "#"-prefixed header lines, then one
// "AhKs,0.753100" line per combo. It returns the per-combo weights and the
// header title, if one was declared.
func ParseRange(r io.Reader) (map[string]float64, string, error) {
	combos := make(map[string]float64)
	title := ""
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			if t, ok := headerValue(text, "title"); ok {
				title = t
			}
			continue
		}
		combo, weight, err := parseComboLine(text)
		if err != nil {
			return nil, "", fmt.Errorf("line %d: %w", line, err)
		}
		if _, dup := combos[combo]; dup {
			return nil, "", fmt.Errorf("line %d: duplicate combo %q", line, combo)
		}
		combos[combo] = weight
	}
	if err := sc.Err(); err != nil {
		return nil, "", err
	}
	return combos, title, nil
}

func headerValue(line, key string) (string, bool) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	if !strings.HasPrefix(strings.ToLower(rest), key+":") {
		return "", false
	}
	return strings.TrimSpace(rest[len(key)+1:]), true
}

func parseComboLine(text string) (string, float64, error) {
	comboPart, weightPart, ok := strings.Cut(text, ",")
	if !ok {
		return "", 0, fmt.Errorf("malformed combo line %q", text)
	}
	combo, err := normalizeCombo(strings.TrimSpace(comboPart))
	if err != nil {
		return "", 0, err
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(weightPart), 64)
	if err != nil {
		return "", 0, fmt.Errorf("parse weight %q: %w", weightPart, err)
	}
	if weight < 0 || weight > 1 {
		return "", 0, fmt.Errorf("weight %v outside [0,1]", weight)
	}
	return combo, weight, nil
}

// normalizeCombo validates both cards and orders them deterministically so
// the same holding always maps to one key.
func normalizeCombo(s string) (string, error) {
	if len(s) != 4 {
		return "", fmt.Errorf("malformed combo %q", s)
	}
	a, b := domain.Card(s[0:2]), domain.Card(s[2:4])
	if !a.Valid() || !b.Valid() {
		return "", fmt.Errorf("invalid card in combo %q", s)
	}
	if a == b {
		return "", fmt.Errorf("combo %q repeats a card", s)
	}
	ai, bi := domain.RankIndex(a.Rank()), domain.RankIndex(b.Rank())
	if ai > bi || (ai == bi && a.Suit() > b.Suit()) {
		a, b = b, a
	}
	return string(a) + string(b), nil
}

// ClassFor maps a combo to its 169-class label ("AA", "AKs", "AKo").
func ClassFor(combo string) (string, error) {
	norm, err := normalizeCombo(combo)
	if err != nil {
		return "", err
	}
	hi, lo := domain.Card(norm[0:2]), domain.Card(norm[2:4])
	if hi.Rank() == lo.Rank() {
		return string(hi.Rank()) + string(lo.Rank()), nil
	}
	suffix := "o"
	if hi.Suit() == lo.Suit() {
		suffix = "s"
	}
	return string(hi.Rank()) + string(lo.Rank()) + suffix, nil
}

// BinClasses folds per-combo weights into the class grid, dividing each cell
// by the class's full combo capacity so partial charts read as densities.
func BinClasses(name, title string, combos map[string]float64) *Grid {
	g := &Grid{Name: name, Title: title}
	for r := 0; r < 13; r++ {
		for c := 0; c < 13; c++ {
			g.Classes[r][c] = Class{Label: classLabel(r, c)}
		}
	}
	for combo, weight := range combos {
		label, err := ClassFor(combo)
		if err != nil {
			continue
		}
		row, col, _ := classIndex(label)
		g.Classes[row][col].Weight += weight
		if weight > 0 {
			g.Combos++
		}
	}
	for r := 0; r < 13; r++ {
		for c := 0; c < 13; c++ {
			g.Classes[r][c].Weight /= classCapacity(r, c)
		}
	}
	return g
}

func classLabel(row, col int) string {
	if row == col {
		return string(domain.RanksDesc[row]) + string(domain.RanksDesc[col])
	}
	if row < col { // suited, above the diagonal
		return string(domain.RanksDesc[row]) + string(domain.RanksDesc[col]) + "s"
	}
	return string(domain.RanksDesc[col]) + string(domain.RanksDesc[row]) + "o"
}

func classCapacity(row, col int) float64 {
	switch {
	case row == col:
		return 6
	case row < col:
		return 4
	default:
		return 12
	}
}

func classIndex(label string) (int, int, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) < 2 || len(label) > 3 {
		return 0, 0, false
	}
	hi := domain.RankIndex(label[0])
	lo := domain.RankIndex(label[1])
	if hi < 0 || lo < 0 {
		return 0, 0, false
	}
	if hi > lo {
		hi, lo = lo, hi
	}
	if len(label) == 2 {
		if hi != lo {
			return 0, 0, false
		}
		return hi, lo, true
	}
	if hi == lo {
		return 0, 0, false
	}
	switch label[2] {
	case 'S':
		return hi, lo, true
	case 'O':
		return lo, hi, true
	}
	return 0, 0, false
}

// Book is the named-range catalog: embedded baseline charts plus any found
// in a ranges directory (directory files win on name clashes). Grids are
// parsed and binned on first request, then memoized.
type Book struct {
	sources map[string]*rangeSource
	byName  map[string]string
	byTitle map[string]string
	names   []string
}

type rangeSource struct {
	name string
	raw  []byte

	once sync.Once
	grid *Grid
	err  error
}

// Open builds the catalog. dir may be empty: the RANGE_DIR environment
// variable is consulted next, then the default locations; with none present
// only the embedded charts are served.
func Open(dir string) (*Book, error) {
	b := &Book{
		sources: make(map[string]*rangeSource),
		byName:  make(map[string]string),
		byTitle: make(map[string]string),
	}
	if err := b.loadEmbedded(); err != nil {
		return nil, err
	}
	resolved, err := resolveRangeDir(dir)
	if err != nil {
		return nil, err
	}
	if resolved != "" {
		if err := b.applyDir(resolved); err != nil {
			return nil, err
		}
	}
	b.reindex()
	return b, nil
}

func resolveRangeDir(dir string) (string, error) {
	if d := strings.TrimSpace(dir); d != "" {
		if !dirExists(d) {
			return "", fmt.Errorf("range directory missing: %s", d)
		}
		return d, nil
	}
	if env := strings.TrimSpace(os.Getenv("RANGE_DIR")); env != "" {
		if !dirExists(env) {
			return "", fmt.Errorf("env RANGE_DIR points to missing directory: %s", env)
		}
		return env, nil
	}
	for _, candidate := range defaultRangeDirs() {
		if dirExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

func defaultRangeDirs() []string {
	return []string{
		filepath.Join("resources", "ranges"),
		"ranges",
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (b *Book) loadEmbedded() error {
	entries, err := fs.ReadDir(embeddedRanges, "ranges")
	if err != nil {
		return fmt.Errorf("read embedded ranges: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		raw, err := embeddedRanges.ReadFile("ranges/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read embedded range %s: %w", entry.Name(), err)
		}
		b.addSource(entry.Name(), raw)
	}
	return nil
}

func (b *Book) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read range directory %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".rng" && ext != ".txt" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read range file %q: %w", entry.Name(), err)
		}
		b.addSource(entry.Name(), raw)
	}
	return nil
}

func (b *Book) addSource(filename string, raw []byte) {
	name := strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if name == "" {
		return
	}
	b.sources[name] = &rangeSource{name: name, raw: raw}
}

func (b *Book) reindex() {
	b.names = b.names[:0]
	for name, src := range b.sources {
		b.names = append(b.names, name)
		if token := normalizeToken(name); token != "" {
			b.byName[token] = name
		}
		if title := scanTitle(src.raw); title != "" {
			if token := normalizeToken(title); token != "" {
				b.byTitle[token] = name
			}
		}
	}
	sort.Strings(b.names)
}

// Names lists the canonical range names, sorted.
func (b *Book) Names() []string {
	return append([]string(nil), b.names...)
}

// Resolve maps a user-supplied token (name or title, any punctuation) to a
// canonical range name.
func (b *Book) Resolve(token string) (string, bool) {
	norm := normalizeToken(token)
	if norm == "" {
		return "", false
	}
	if name, ok := b.byName[norm]; ok {
		return name, true
	}
	if name, ok := b.byTitle[norm]; ok {
		return name, true
	}
	return "", false
}

// Grid parses, bins, and memoizes the named range.
func (b *Book) Grid(token string) (*Grid, error) {
	name, ok := b.Resolve(token)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRange, token)
	}
	src := b.sources[name]
	src.once.Do(func() {
		combos, title, err := ParseRange(bytes.NewReader(src.raw))
		if err != nil {
			src.err = fmt.Errorf("parse range %q: %w", name, err)
			return
		}
		src.grid = BinClasses(name, title, combos)
	})
	if src.err != nil {
		return nil, src.err
	}
	grid := *src.grid
	return &grid, nil
}

func scanTitle(raw []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if !strings.HasPrefix(text, "#") {
			break
		}
		if t, ok := headerValue(text, "title"); ok {
			return t
		}
	}
	return ""
}

func normalizeToken(s string) string {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range trimmed {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
