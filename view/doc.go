// Package view turns a loaded dataset and a set of user-selected parameters
// into a rendered dashboard view.
//
// [State] holds the parameters of one client session: the two attributes of
// the scatter plot, an optional numeric range filter, categorical filters and
// table sorting/paging. A [Change] is a partial State sent by the client;
// [Renderer.Apply] merges it and either returns the new State or a
// [*ViewError] alongside the unchanged previous State.
//
// [Renderer.Render] is a pure function of the dataset and a State: the same
// inputs always produce an identical [Rendered] value, including the SVG
// markup of its charts.
package view
