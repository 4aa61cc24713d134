// Package view renders pages.
//
// Built-in pages and theme layouts are templ components. Step templates are
// plain html/template files looked up by name across an ordered list of view
// directories (route views first, then application views, then theme views),
// so they can be edited without a code generation step. Renderer.Component
// adapts such a template to templ.Component so both kinds compose under the
// same Layout.
//
// Request scoped values reach templates through the context: a TranslateFunc
// installed with WithTranslator and Locals installed with WithLocals.
package view
