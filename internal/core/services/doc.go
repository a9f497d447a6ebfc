// Package services implements the driving port interfaces.
//
// A search flows through the Coordinator, which asks the QueryAnalyzer for a
// structured reading of the query and then fans out to one SourceAdapter per
// record type. The SearchService scores, ranks, truncates, highlights and
// mines suggestions from the merged results.
//
// Services depend only on driven ports; storage and language models are
// injected at construction time.
package services
