package seatmap

import "github.com/beevik/etree"

// EnvelopeNamespaces are the namespace URIs of the OTA SOAP dialect.
type EnvelopeNamespaces struct {
	SOAP string
	OTA  string
}

// OfferNamespaces are the namespace URIs of the IATA NDC dialect. The
// dialect declares a single default namespace.
type OfferNamespaces struct {
	Default string
}

// Namespaces groups the per-dialect tables. Each extractor only ever sees
// its own table.
type Namespaces struct {
	Envelope EnvelopeNamespaces
	Offer    OfferNamespaces
}

// DefaultNamespaces returns the namespace URIs published by the two dialects.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		Envelope: EnvelopeNamespaces{
			SOAP: "http://schemas.xmlsoap.org/soap/envelope/",
			OTA:  "http://www.opentravel.org/OTA/2003/05/common/",
		},
		Offer: OfferNamespaces{
			Default: "http://www.iata.org/IATA/EDIST/2017.2",
		},
	}
}

// matches reports whether el is named local within namespace uri.
func matches(el *etree.Element, uri, local string) bool {
	return el.Tag == local && el.NamespaceURI() == uri
}

// children returns the direct children of el named local in namespace uri.
func children(el *etree.Element, uri, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if matches(c, uri, local) {
			out = append(out, c)
		}
	}
	return out
}

// child returns the first direct child of el named local in namespace uri.
func child(el *etree.Element, uri, local string) *etree.Element {
	for _, c := range el.ChildElements() {
		if matches(c, uri, local) {
			return c
		}
	}
	return nil
}

// descend follows a path of local names, all in namespace uri, and returns
// every element reached. Each step fans out over all matching children.
func descend(el *etree.Element, uri string, path ...string) []*etree.Element {
	level := []*etree.Element{el}
	for _, local := range path {
		var next []*etree.Element
		for _, e := range level {
			next = append(next, children(e, uri, local)...)
		}
		level = next
	}
	return level
}
