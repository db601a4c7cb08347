// Package source loads the category index, the entity index and one detail
// file per entity, and aggregates them into a [hierarchy.Forest].
//
// The base is either an http(s) URL or a local directory with the same
// layout:
//
//	categories.json        [{"key","type","name","group","totalSubCheckpoints"}]
//	entities.json          [{"id","name"}]
//	entities/<id>.json     {"roadmaps": {"<key>": {"completions": {...}}}}
//
// Detail files are fetched in parallel with a bounded pool. Any failed file,
// including a 404, aborts the whole load with a DATA_FETCH error.
package source
