package compliance

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a rule file. The file is a YAML (or JSON) object keyed by
// jurisdiction; each value is either an object of rule key → definition or
// an object with a "rules" field holding one:
//
//	CA:
//	  overtime:
//	    severity: error
//	    message: Overtime must be paid at 1.5x.
//	    flaggedPhrases: [overtime, time and a half]
//	NY:
//	  state: NY
//	  rules:
//	    pay_notice: {severity: warning, message: ..., flaggedPhrases: [pay rate]}
func LoadFile(path string) (*RuleBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	book, err := ParseRuleFile(data)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return book, nil
}

// ParseRuleFile decodes the rule file format described on LoadFile. Any
// invalid rule rejects the whole file.
func ParseRuleFile(data []byte) (*RuleBook, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("cannot parse rule file: %v", err)}
	}
	book := NewRuleBook()
	if doc.Kind == 0 {
		return book, nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ValidationError{Reason: "rule file must be an object keyed by jurisdiction"}
	}

	type pending struct {
		jurisdiction string
		rules        []Rule
	}
	var all []pending
	for i := 0; i+1 < len(root.Content); i += 2 {
		jurisdiction := root.Content[i].Value
		if err := checkJurisdiction(jurisdiction); err != nil {
			return nil, err
		}
		node := root.Content[i+1]
		if node.Kind != yaml.MappingNode {
			return nil, &ValidationError{Jurisdiction: jurisdiction, Reason: "jurisdiction entry must be an object"}
		}
		if inner := mappingValue(node, "rules"); inner != nil {
			node = inner
		}
		if node.Kind != yaml.MappingNode {
			return nil, &ValidationError{Jurisdiction: jurisdiction, Reason: "rules must be an object"}
		}
		rules, err := decodeRuleMap(jurisdiction, node)
		if err != nil {
			return nil, err
		}
		all = append(all, pending{jurisdiction, rules})
	}

	for _, p := range all {
		book.Put(p.jurisdiction, p.rules...)
	}
	return book, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// Watcher reloads a rule file into a rule book whenever the file changes.
// Reloads merge: rules in the file are added or overwritten, nothing is
// removed.
type Watcher struct {
	path     string
	book     *RuleBook
	onReload func(error)
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// WatchFile starts watching path. onReload, if not nil, is called after
// every reload attempt with its error (nil on success).
func WatchFile(path string, book *RuleBook, onReload func(error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving rule file path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		path:     abs,
		book:     book,
		onReload: onReload,
		watcher:  watcher,
		stopChan: make(chan struct{}),
	}

	// Watch the directory so editors that replace the file are seen
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching directory %s: %w", filepath.Dir(abs), err)
	}

	w.wg.Add(1)
	go w.watchLoop()
	return w, nil
}

// Close stops watching
func (w *Watcher) Close() error {
	close(w.stopChan)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create,
				event.Op&fsnotify.Write == fsnotify.Write:
				w.reload()

			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				log.Printf("compliance: rule file %s removed, keeping loaded rules", w.path)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("compliance: rule file watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	loaded, err := LoadFile(w.path)
	if err != nil {
		log.Printf("compliance: reload failed: %v", err)
	} else {
		w.book.Merge(loaded)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}
