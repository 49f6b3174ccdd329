// Package assets embeds the page template, stylesheet and script of the map.
package assets

import _ "embed"

// Template is the text/template source of the map page.
//
//go:embed map.html.tpl
var Template string

// Style is the page stylesheet, inlined by the renderer.
//
//go:embed style.css
var Style string

// Script draws the layers from the embedded GeoJSON, inlined by the renderer.
//
//go:embed script.js
var Script string
