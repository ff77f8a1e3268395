package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/handiism/mp3norm/internal/model"
)

func renderSummary(result *model.RunResult) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "File", "Status", "Artist", "Title", "Album", "Cover"})

	for _, o := range result.Outcomes {
		artist, title, album, cover := "", "", "", ""
		if o.Final != nil {
			artist = model.Display(o.Final.Artist)
			title = model.Display(o.Final.Title)
			album = model.Display(o.Final.Album)
			if o.Final.HasCover {
				cover = "yes"
			} else {
				cover = "no"
			}
		}
		status := o.Status.String()
		if o.Err != nil {
			status += ": " + o.Err.Error()
		}
		tw.AppendRow(table.Row{strconv.Itoa(o.Index), o.Filename, status, artist, title, album, cover})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, WidthMax: 48},
		{Number: 3, WidthMax: 40},
	})

	return tw.Render()
}
