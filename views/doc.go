// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views renders the HTML pages.

Every page is a [templ.Component] backed by an html/template file embedded in
package assets. Pages share the "layout" template, which draws the navigation
bar from [navigation.AllViews] and localizes text through package i18n.
*/
package views
