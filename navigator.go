package cefidata

import "context"

// levelLabels are the level names as rendered in "No matching ... found."
// messages, indexed by level depth.
var levelLabels = [NavigableLevels]string{
	"region",
	"subdomain",
	"experiment type",
	"output frequency",
	"grid type",
	"release date",
	"variable category",
}

// Selection holds the level selectors for one navigation, ordered from
// region down to variable category. A nil field means the level was not
// supplied. Descent stops at the first unsupplied level; anything supplied
// below that point is ignored, so callers must fill levels top-down for
// deeper selectors to take effect.
type Selection struct {
	Region           *string
	Subdomain        *string
	ExperimentType   *string
	OutputFrequency  *string
	GridType         *string
	ReleaseDate      *string
	VariableCategory *string
}

// Full returns a Selection with every level supplied.
func Full(region, subdomain, experimentType, outputFrequency, gridType, releaseDate, variableCategory string) Selection {
	return Prefix(region, subdomain, experimentType, outputFrequency, gridType, releaseDate, variableCategory)
}

// Prefix returns a Selection with the given values filling the shallowest
// levels in order. Supplying more than NavigableLevels values panics.
func Prefix(values ...string) Selection {
	var sel Selection
	fields := [NavigableLevels]**string{
		&sel.Region,
		&sel.Subdomain,
		&sel.ExperimentType,
		&sel.OutputFrequency,
		&sel.GridType,
		&sel.ReleaseDate,
		&sel.VariableCategory,
	}
	for i := range values {
		*fields[i] = &values[i]
	}
	return sel
}

func (s Selection) selectors() [NavigableLevels]*string {
	return [NavigableLevels]*string{
		s.Region,
		s.Subdomain,
		s.ExperimentType,
		s.OutputFrequency,
		s.GridType,
		s.ReleaseDate,
		s.VariableCategory,
	}
}

// VariableListing groups the variable names available under one variable
// category, in tree order.
type VariableListing struct {
	LongNames  []string
	ShortNames []string
	FileNames  []string
}

// Navigator answers option queries against the tree. Each call re-walks
// the tree from the root with the caller's full selection; no navigation
// state is kept between calls.
type Navigator struct {
	trees TreeService
}

// NewNavigator creates a Navigator reading from the given tree service.
func NewNavigator(trees TreeService) *Navigator {
	return &Navigator{trees: trees}
}

// Options descends through the supplied selection, resolving each selector
// with MatchOption against the keys at its level, and returns the option
// keys at the next level in tree order. A selector that resolves no key
// returns ENOTFOUND with a "No matching <level> found." message; an
// unavailable tree returns EUNAVAILABLE.
func (n *Navigator) Options(ctx context.Context, sel Selection) ([]string, error) {
	tree, err := n.trees.Load(ctx)
	if err != nil {
		return nil, err
	}

	node := tree.Root()
	for i, query := range sel.selectors() {
		if query == nil {
			return node.Keys(), nil
		}
		child, err := resolveChild(node, *query, i)
		if err != nil {
			return nil, err
		}
		node = child
	}
	return node.Keys(), nil
}

// VariableNames resolves a full selection down to a variable category and
// collects the long names, short names, and file names beneath it,
// depth-first in tree order. All seven levels must be supplied.
func (n *Navigator) VariableNames(ctx context.Context, sel Selection) (*VariableListing, error) {
	tree, err := n.trees.Load(ctx)
	if err != nil {
		return nil, err
	}

	node := tree.Root()
	for i, query := range sel.selectors() {
		if query == nil {
			return nil, Errorf(EINVALID, "%s is required", levelLabels[i])
		}
		child, err := resolveChild(node, *query, i)
		if err != nil {
			return nil, err
		}
		node = child
	}

	listing := &VariableListing{}
	for _, long := range node.Keys() {
		listing.LongNames = append(listing.LongNames, long)
		longNode, _ := node.Child(long)
		for _, short := range longNode.Keys() {
			listing.ShortNames = append(listing.ShortNames, short)
			shortNode, _ := longNode.Child(short)
			listing.FileNames = append(listing.FileNames, shortNode.Keys()...)
		}
	}
	return listing, nil
}

// LevelNames returns the tree's level names from top to bottom. Requires
// the tree to be available, mirroring the option queries.
func (n *Navigator) LevelNames(ctx context.Context) ([]string, error) {
	if _, err := n.trees.Load(ctx); err != nil {
		return nil, err
	}
	return Levels(), nil
}

func resolveChild(node *Node, query string, level int) (*Node, error) {
	key, ok := MatchOption(query, node.Keys())
	if !ok {
		return nil, Errorf(ENOTFOUND, "No matching %s found.", levelLabels[level])
	}
	child, _ := node.Child(key)
	return child, nil
}
