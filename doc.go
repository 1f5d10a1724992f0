// Package grid provides a headless data-grid engine for table components.
//
// Users import this single package for the complete public API: column
// configuration, row identity, the filter/sort/pagination pipeline,
// selection and expansion state, and the Table orchestrator that turns all
// of it into a TableView for a rendering layer to paint.
//
// The engine never paints. Column render strategies and per-row hooks are
// carried through to the view untouched.
package grid
