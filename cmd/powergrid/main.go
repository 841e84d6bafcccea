// 命令行入口：装载YAML算例，执行潮流/短路/全节点扫描，
// 输出结构化日志与可选的电压剖面、收敛历史PNG图。
package main

import (
	"context"
	"fmt"
	"math/cmplx"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"powergrid"
	"powergrid/load"
	"powergrid/powerflow"
	"powergrid/shortcircuit"
)

func main() {
	var (
		casePath = pflag.StringP("case", "c", "", "YAML算例文件路径")
		mode     = pflag.StringP("mode", "m", "pf", "运行模式: pf(潮流) / sc(短路) / sweep(全节点短路扫描)")
		method   = pflag.String("method", "", "潮流方法覆盖: newton / gauss / fdlf")
		workers  = pflag.Int("workers", 4, "扫描模式的并行工作协程数")
		plotDir  = pflag.String("plot-dir", "", "输出PNG图目录（留空不出图）")
		verbose  = pflag.BoolP("verbose", "v", false, "输出调试日志")
	)
	pflag.Parse()

	log := newLogger(*verbose)
	defer log.Sync()

	if *casePath == "" {
		log.Fatal("缺少算例文件，使用 --case 指定")
	}
	c, err := powergrid.LoadCase(*casePath)
	if err != nil {
		log.Fatal("装载算例失败", zap.Error(err))
	}
	if *method != "" {
		c.Method = *method
	}
	log.Info("算例装载完成",
		zap.String("file", *casePath),
		zap.Int("nodes", len(c.Net.NodeIDs())),
		zap.Int("branches", len(c.Net.BranchIDs())),
		zap.String("method", c.Method))

	switch *mode {
	case "pf":
		runPowerFlow(log, c, *plotDir)
	case "sc":
		runShortCircuit(log, c)
	case "sweep":
		runSweep(log, c, *workers)
	default:
		log.Fatal("未知运行模式", zap.String("mode", *mode))
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "初始化日志失败:", err)
		os.Exit(1)
	}
	return log
}

func runPowerFlow(log *zap.Logger, c *load.Case, plotDir string) {
	res, err := powergrid.RunPowerFlow(c)
	if err != nil {
		log.Fatal("潮流求解失败", zap.Error(err))
	}
	log.Info("潮流求解完成",
		zap.String("method", res.Method),
		zap.Bool("converged", res.Converged),
		zap.Int("iterations", res.Iterations),
		zap.Float64("max_mismatch", res.MaxMismatch),
		zap.Float64("p_loss_mw", res.PLossMW),
		zap.Float64("slack_p_mw", res.SlackPMW))

	for _, ev := range res.Events {
		log.Warn("PV→PQ切换",
			zap.String("node", ev.NodeID),
			zap.Int("iteration", ev.Iteration),
			zap.String("limit", ev.Limit),
			zap.Float64("q_mvar", ev.QMvar))
	}
	for _, w := range res.Warnings {
		log.Warn(w)
	}
	for _, bus := range res.Buses {
		log.Debug("节点结果",
			zap.String("id", bus.ID),
			zap.String("type", bus.Type.String()),
			zap.Float64("vm_pu", bus.VmPU),
			zap.Float64("va_rad", bus.VaRad),
			zap.Float64("p_mw", bus.PMW),
			zap.Float64("q_mvar", bus.QMvar))
	}
	for _, flow := range res.Branches {
		log.Debug("支路潮流",
			zap.String("id", flow.ID),
			zap.Float64("p_from_mw", flow.PFromMW),
			zap.Float64("p_loss_mw", flow.PLossMW),
			zap.Float64("loading_pct", flow.LoadingPct))
	}

	if plotDir != "" {
		if err := plotVoltageProfile(res, filepath.Join(plotDir, "voltage_profile.png")); err != nil {
			log.Error("电压剖面图输出失败", zap.Error(err))
		}
		if err := plotConvergence(res, filepath.Join(plotDir, "convergence.png")); err != nil {
			log.Error("收敛历史图输出失败", zap.Error(err))
		}
	}

	if !res.Converged {
		os.Exit(2)
	}
}

func runShortCircuit(log *zap.Logger, c *load.Case) {
	res, err := powergrid.RunShortCircuit(c)
	if err != nil {
		log.Fatal("短路计算失败", zap.Error(err))
	}
	logFault(log, res)
	for _, con := range res.BranchContributions {
		log.Info("支路电流份额",
			zap.String("id", con.ID),
			zap.Float64("i_ka", cmplx.Abs(con.IKA)),
			zap.Float64("share_pct", con.SharePct))
	}
	for _, con := range res.SourceContributions {
		log.Info("电源电流份额",
			zap.String("id", con.ID),
			zap.Float64("i_ka", cmplx.Abs(con.IKA)),
			zap.Float64("share_pct", con.SharePct))
	}
}

func runSweep(log *zap.Logger, c *load.Case, workers int) {
	results, err := powergrid.SweepShortCircuit(context.Background(), c, workers)
	if err != nil {
		log.Fatal("短路扫描失败", zap.Error(err))
	}
	for _, res := range results {
		logFault(log, res)
	}
}

func logFault(log *zap.Logger, res *shortcircuit.Result) {
	log.Info("短路计算完成",
		zap.String("node", res.FaultNode),
		zap.String("fault_type", res.Type.String()),
		zap.Float64("ikss_ka", res.IkssKA),
		zap.Float64("ip_ka", res.IpKA),
		zap.Float64("ith_ka", res.IthKA),
		zap.Float64("ib_ka", res.IbKA),
		zap.Float64("sk_mva", res.SkMVA),
		zap.Float64("kappa", res.Kappa),
		zap.Float64("rx_ratio", res.RXRatio))
}

// plotVoltageProfile 各节点电压幅值剖面图（按矩阵索引顺序）
func plotVoltageProfile(res *powerflow.Result, path string) error {
	p := plot.New()
	p.Title.Text = "节点电压剖面"
	p.X.Label.Text = "节点序号"
	p.Y.Label.Text = "电压幅值 (p.u.)"

	pts := make(plotter.XYs, len(res.Buses))
	for i, bus := range res.Buses {
		pts[i].X = float64(i)
		pts[i].Y = bus.VmPU
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	p.Add(line, points, plotter.NewGrid())
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// plotConvergence 每次迭代最大失配的收敛历史（对数纵轴）
func plotConvergence(res *powerflow.Result, path string) error {
	if len(res.Mismatches) == 0 {
		return nil
	}
	p := plot.New()
	p.Title.Text = "收敛历史"
	p.X.Label.Text = "迭代序号"
	p.Y.Label.Text = "最大失配 (p.u.)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	pts := make(plotter.XYs, 0, len(res.Mismatches))
	for i, m := range res.Mismatches {
		if m > 0 {
			pts = append(pts, plotter.XY{X: float64(i), Y: m})
		}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
