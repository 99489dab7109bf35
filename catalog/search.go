package catalog

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/search"
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultSearchLimit is used when Search is called with limit <= 0.
const DefaultSearchLimit = 10

func buildIndex(tools []Tool) (index.Index, tooldoc.Store) {
	idx := index.NewInMemoryIndex(index.IndexOptions{
		Searcher: search.NewBM25Searcher(search.BM25Config{}),
	})
	var docs tooldoc.Store = tooldoc.NewInMemoryStore(tooldoc.StoreOptions{Index: idx})
	store, _ := docs.(*tooldoc.InMemoryStore)

	for _, t := range tools {
		entry := model.Tool{
			Tool: mcp.Tool{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: t.InputSchema,
			},
			Namespace: t.Backend,
			Tags:      model.NormalizeTags([]string{t.Backend, "mcp"}),
		}
		if err := idx.RegisterTool(entry, model.NewLocalBackend(t.Name)); err != nil {
			logger.KV(xlog.DEBUG, "reason", "index", "tool", t.Name, "err", err.Error())
			continue
		}
		if store == nil {
			continue
		}
		err := store.RegisterDoc(docID(t), tooldoc.DocEntry{
			Summary: t.Description,
			Notes:   docNotes(t),
		})
		if err != nil {
			logger.KV(xlog.DEBUG, "reason", "doc", "tool", t.Name, "err", err.Error())
		}
	}
	return idx, docs
}

func docNotes(t Tool) string {
	notes := "Backend " + t.Backend + ", remote tool " + t.RemoteName + ". Input: " + t.Input.String()
	if params := t.Input.FieldNames(); len(params) > 0 {
		notes += ". Parameters: " + strings.Join(params, ", ")
	}
	return notes
}

func docID(t Tool) string {
	return t.Backend + ":" + t.Name
}

// Search ranks catalog tools against query.
func (c *Catalog) Search(query string, limit int) ([]Tool, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	c.mu.RLock()
	idx := c.index
	c.mu.RUnlock()
	if idx == nil {
		return nil, nil
	}

	hits, err := idx.Search(query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "search tools")
	}

	out := make([]Tool, 0, len(hits))
	for _, hit := range hits {
		name := hit.Name
		if name == "" {
			_, name, _ = model.ParseToolID(hit.ID)
		}
		if t, ok := c.Lookup(name); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Doc returns the documentation of the named tool.
func (c *Catalog) Doc(name string, level tooldoc.DetailLevel) (tooldoc.ToolDoc, error) {
	t, ok := c.Lookup(name)
	if !ok {
		return tooldoc.ToolDoc{}, errors.Wrap(ErrToolNotFound, name)
	}

	c.mu.RLock()
	docs := c.docs
	c.mu.RUnlock()

	doc, err := docs.DescribeTool(docID(t), level)
	if err != nil {
		return tooldoc.ToolDoc{}, errors.Wrapf(err, "describe %s", name)
	}
	return doc, nil
}
