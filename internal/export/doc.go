// Package export serialises segmentation results to the JSON interchange
// shapes established by the upstream analysis service: a metadata document
// with per-grain records, and per-grain atom groups keyed "Grain_<id>" with
// unadopted disordered atoms under "Unassigned". Exported grain ids are
// 1-based to keep 0/absent distinguishable for downstream consumers.
package export
