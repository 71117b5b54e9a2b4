// Package domain models earthquake catalog spreadsheets and the pipeline that
// turns them into filtered, normalized records.
//
// # Data Source
//
// Catalogs are spreadsheet exports published by national seismological
// agencies. The exports are not consistent between agencies or between years:
// they often prepend a title and a few metadata rows before the real header,
// and the header wording varies ("발생시각" vs "Occurrence Time", "규모" vs
// "Mag"). Nothing about the layout is guaranteed, so the pipeline infers it.
//
// # Pipeline
//
//	RawTable → [HeaderDetector] → LabeledTable → [Classifier] → suggested RoleMapping
//	         → [Resolve] (+ user overrides) → RoleMapping → [Normalize] → []NormalizedRecord
//	         → [Apply] (FilterSpec) → filtered records → [Summarize], [Points]
//
// Every stage is a pure function of its inputs. Callers rerun the whole chain
// whenever a selection changes; nothing is cached between runs.
//
// # Header detection
//
//	The first row within the scan window whose numeric-cell count reaches the
//	threshold is taken to be the first data row; the header is the row above it
//	(or row 0 when the first data row is row 0). Agency title rows rarely
//	contain two numbers, data rows almost always do (magnitude, lat, lon).
//
// # Column roles
//
//	time, magnitude, region   mandatory; default to the first column when no
//	                          keyword matches so the pipeline can always run
//	latitude, longitude       optional; default to "none"
//
// Matching is substring-based over NFKC-folded, lower-cased, whitespace-free
// strings. Keyword order is the priority; column order breaks ties.
//
// # Magnitude buckets
//
//	0~2 | 2~3 | 3~4 | 4~5 | 5~6 | 6+
//
//	Intervals are closed above and open below, e.g. 2.0 falls in "0~2". The
//	lowest bound is inclusive so 0 lands in "0~2". Values below 0 or above 10
//	get no bucket.
//
// # Record IDs
//
// Record IDs are deterministic SHA-256 hashes of the row index and raw cells so
// repeated exports of the same table produce the same keys. See [recordID].
package domain
