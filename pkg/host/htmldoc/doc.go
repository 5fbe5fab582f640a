// Package htmldoc implements [masonry.Host] over a static HTML document.
//
// The document is parsed with golang.org/x/net/html. Selectors that start
// with "/" or "(" are evaluated as XPath through htmlquery; everything else
// is compiled as a CSS selector with cascadia.
//
// There is no rendering engine behind the document, so geometry is read
// from each element's inline style (left, top, width and height in px,
// unitless numbers accepted) with data-width and data-height as fallbacks.
// SetPosition rewrites the inline style to an absolute position, and
// [Document.Render] serializes the result:
//
//	doc, err := htmldoc.Parse(r)
//	...
//	engine, err := masonry.New(doc, masonry.Container("#grid"), masonry.WithColumnWidth(240))
//	...
//	err = engine.Layout()
//	err = doc.Render(w)
//
// The viewport width comes from <meta name="viewport" content="width=N">
// when present, otherwise from [WithViewport] or [DefaultViewportWidth].
package htmldoc
