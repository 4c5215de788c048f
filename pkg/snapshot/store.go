package snapshot

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/behrlich/goalttt-solver/pkg/cfr"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

// Store is a directory-style blob store backed by a single LevelDB
// database at a given path: every snapshot (debug_{i}, strategy_{i}, and
// the multi-round tool's subgame_{p1}_{p2}/... entries) is a keyed blob
// rather than a separate file, while the path itself still reads as "the
// output directory" to callers.
type Store struct {
	db *leveldb.DB
}

// Open creates or reopens the blob store rooted at dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: opening store at %s", dir)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying LevelDB handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func debugKey(iteration int) []byte        { return []byte(fmt.Sprintf("debug_%d", iteration)) }
func strategyKey(iteration int) []byte     { return []byte(fmt.Sprintf("strategy_%d", iteration)) }
func bestResponseKey(iteration int) []byte { return []byte(fmt.Sprintf("best_response_%d", iteration)) }

func subgamePrefix(p1, p2 int) string {
	return fmt.Sprintf("subgame_%d_%d/", p1, p2)
}

func subgameDebugKey(p1, p2, iteration int) []byte {
	return []byte(subgamePrefix(p1, p2) + fmt.Sprintf("debug_%d", iteration))
}

func subgameStrategyKey(p1, p2, iteration int) []byte {
	return []byte(subgamePrefix(p1, p2) + fmt.Sprintf("strategy_%d", iteration))
}

// PutEngine persists an engine's state under debug_{iteration}.
func (s *Store) PutEngine(iteration int, e *cfr.Engine) error {
	data, err := EncodeEngine(e)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db.Put(debugKey(iteration), data, nil), "snapshot: writing debug blob")
}

// GetEngine loads the engine state written under debug_{iteration}.
func (s *Store) GetEngine(iteration int, tree *gametree.GameTree) (*cfr.Engine, error) {
	data, err := s.db.Get(debugKey(iteration), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: reading debug blob %d", iteration)
	}
	return DecodeEngine(data, tree)
}

// PutStrategy persists sigma under strategy_{iteration}.
func (s *Store) PutStrategy(iteration int, sigma strategy.Strategy) error {
	data, err := EncodeStrategy(sigma)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db.Put(strategyKey(iteration), data, nil), "snapshot: writing strategy blob")
}

// GetStrategy loads the strategy written under strategy_{iteration}.
func (s *Store) GetStrategy(iteration int) (strategy.Strategy, error) {
	data, err := s.db.Get(strategyKey(iteration), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: reading strategy blob %d", iteration)
	}
	return DecodeStrategy(data)
}

// PutSubgameEngine/PutSubgameStrategy mirror PutEngine/PutStrategy but key
// under a subgame_{p1}_{p2}/ prefix, per spec.md 6's multi-round layout.
func (s *Store) PutSubgameEngine(p1, p2, iteration int, e *cfr.Engine) error {
	data, err := EncodeEngine(e)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db.Put(subgameDebugKey(p1, p2, iteration), data, nil), "snapshot: writing subgame debug blob")
}

func (s *Store) PutSubgameStrategy(p1, p2, iteration int, sigma strategy.Strategy) error {
	data, err := EncodeStrategy(sigma)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db.Put(subgameStrategyKey(p1, p2, iteration), data, nil), "snapshot: writing subgame strategy blob")
}

func (s *Store) GetSubgameStrategy(p1, p2, iteration int) (strategy.Strategy, error) {
	data, err := s.db.Get(subgameStrategyKey(p1, p2, iteration), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: reading subgame strategy blob (%d,%d)/%d", p1, p2, iteration)
	}
	return DecodeStrategy(data)
}

// GetSubgameEngine loads the engine state written under
// subgame_{p1}_{p2}/debug_{iteration}.
func (s *Store) GetSubgameEngine(p1, p2, iteration int, tree *gametree.GameTree) (*cfr.Engine, error) {
	data, err := s.db.Get(subgameDebugKey(p1, p2, iteration), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: reading subgame debug blob (%d,%d)/%d", p1, p2, iteration)
	}
	return DecodeEngine(data, tree)
}

// PutBestResponse persists a computed best-response Strategy under
// best_response_{iteration}, per spec.md 6.
func (s *Store) PutBestResponse(iteration int, br strategy.Strategy) error {
	data, err := EncodeStrategy(br)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db.Put(bestResponseKey(iteration), data, nil), "snapshot: writing best_response blob")
}

// GetBestResponse loads the best-response Strategy written under
// best_response_{iteration}.
func (s *Store) GetBestResponse(iteration int) (strategy.Strategy, error) {
	data, err := s.db.Get(bestResponseKey(iteration), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: reading best_response blob %d", iteration)
	}
	return DecodeStrategy(data)
}

// LatestSubgameIteration scans keys under subgame_{p1}_{p2}/ matching
// strategy_([0-9]+) and returns the maximum iteration found.
func (s *Store) LatestSubgameIteration(p1, p2 int) (int, error) {
	prefix := subgamePrefix(p1, p2)
	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	latest := -1
	for iter.Next() {
		key := string(iter.Key())[len(prefix):]
		m := strategyKeyPattern.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > latest {
			latest = n
		}
	}
	if err := iter.Error(); err != nil {
		return 0, errors.Wrapf(err, "snapshot: scanning latest iteration for subgame (%d,%d)", p1, p2)
	}
	if latest < 0 {
		return 0, errors.Errorf("snapshot: no strategy_N keys found under subgame (%d,%d)", p1, p2)
	}
	return latest, nil
}

var strategyKeyPattern = regexp.MustCompile(`^strategy_([0-9]+)$`)

// LatestIteration scans keys matching strategy_([0-9]+) and returns the
// maximum iteration found, per spec.md 6's "iteration discovery" rule.
func (s *Store) LatestIteration() (int, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	latest := -1
	for iter.Next() {
		m := strategyKeyPattern.FindSubmatch(iter.Key())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(string(m[1]))
		if err != nil {
			continue
		}
		if n > latest {
			latest = n
		}
	}
	if err := iter.Error(); err != nil {
		return 0, errors.Wrap(err, "snapshot: scanning for latest iteration")
	}
	if latest < 0 {
		return 0, errors.New("snapshot: no strategy_N keys found")
	}
	return latest, nil
}
